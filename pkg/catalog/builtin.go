package catalog

import (
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/dsl"
)

// Builtin returns a library preloaded with the stock templates.
func Builtin() *Library {
	l, err := New(BuiltinTemplates()...)
	if err != nil {
		// Stock templates are static; a failure here is a programming error.
		panic(err)
	}
	return l
}

// BuiltinTemplates returns fresh copies of the stock templates.
func BuiltinTemplates() []domain.Template {
	return []domain.Template{
		quickstart(),
		socialFollow(),
		tokenHolder(),
		referralQuest(),
	}
}

func quickstart() domain.Template {
	b := dsl.New("quickstart").
		Name("Quickstart Mission").
		Describe("A linear mission touching every step kind once: act, check a condition, verify, then reward.").
		Category("getting-started").
		Duration("5 min").
		Difficulty("easy")

	b.Add("start").Action("Join the community").
		Describe("Join the project's community channel").
		At(80, 160).Set("platform", "discord").Set("action", "join").
		To("gate")
	b.Add("gate").Condition("Account age").
		Describe("Participant account must be older than 30 days").
		At(360, 160).Set("expression", "account_age_days").Set("operator", ">=").Set("value", 30).
		To("proof")
	b.Add("proof").Verification("Confirm membership").
		Describe("Verify the participant is a member").
		At(640, 160).Set("method", "oauth").Set("required", true).
		To("payout")
	b.Add("payout").Reward("Welcome bonus").
		Describe("Send the welcome bonus").
		At(920, 160).Set("token", "PTS").Set("amount", 10)

	return b.MustBuild()
}

func socialFollow() domain.Template {
	b := dsl.New("social-follow").
		Name("Follow & Earn").
		Describe("Reward participants for following an account and sharing a post.").
		Category("social").
		Duration("10 min").
		Difficulty("easy")

	b.Add("follow").Action("Follow the account").
		At(80, 80).Set("platform", "x").Set("action", "follow").Set("target", "@project").
		To("verify-follow")
	b.Add("share").Action("Share the launch post").
		At(80, 280).Set("platform", "x").Set("action", "repost").Set("count", 1).
		To("verify-share")
	b.Add("verify-follow").Verification("Check follow").
		At(360, 80).Set("method", "api").Set("required", true).
		To("reward")
	b.Add("verify-share").Verification("Check repost").
		At(360, 280).Set("method", "api").Set("required", true).
		To("reward")
	b.Add("reward").Reward("Social reward").
		At(640, 180).Set("token", "PTS").Set("amount", 25)

	return b.MustBuild()
}

func tokenHolder() domain.Template {
	b := dsl.New("token-holder").
		Name("Holder Airdrop").
		Describe("Airdrop to wallets that hold a minimum balance and sign a proof of ownership.").
		Category("onchain").
		Duration("15 min").
		Difficulty("medium")

	b.Add("balance").Condition("Minimum balance").
		At(80, 160).Set("expression", "token_balance").Set("operator", ">=").Set("value", 100).
		To("signature")
	b.Add("signature").Verification("Sign ownership message").
		At(360, 160).Set("method", "signature").Set("proof", "personal_sign").Set("required", true).
		To("airdrop")
	b.Add("airdrop").Reward("Airdrop").
		At(640, 160).Set("token", "GOV").Set("amount", 50)

	return b.MustBuild()
}

func referralQuest() domain.Template {
	b := dsl.New("referral-quest").
		Name("Referral Quest").
		Describe("Invite friends; referrers above the threshold earn a bonus on top of the base reward.").
		Category("growth").
		Duration("1 week").
		Difficulty("hard")

	b.Add("invite").Action("Invite friends").
		At(80, 200).Set("action", "invite").Set("count", 3).
		To("confirm")
	b.Add("confirm").Verification("Confirm sign-ups").
		At(340, 200).Set("method", "referral_code").Set("required", true).
		To("threshold", "base")
	b.Add("threshold").Condition("Five or more referrals").
		At(600, 80).Set("expression", "referrals").Set("operator", ">=").Set("value", 5).
		To("bonus")
	b.Add("base").Reward("Base reward").
		At(600, 320).Set("token", "PTS").Set("amount", 15)
	b.Add("bonus").Reward("Top referrer bonus").
		At(860, 80).Set("token", "PTS").Set("amount", 100)

	return b.MustBuild()
}

/*
Package dsl provides a fluent builder for constructing mission templates in Go.

It allows catalogs and tests to define seed graphs with a type-safe builder
instead of hand-writing step literals.

Example usage:

	tpl := dsl.New("follow-and-earn").
		Name("Follow & Earn").
		Category("social")

	tpl.Add("follow").Action("Follow us").At(80, 120).To("check")
	tpl.Add("check").Verification("Check follow").At(360, 120).To("reward")
	tpl.Add("reward").Reward("Pay out").At(640, 120).Set("amount", 10)

	template, err := tpl.Build()
*/
package dsl

package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// KindConfig is a typed view over a step's open config map.
// The stored representation stays the open map so unknown keys survive round trips.
type KindConfig interface {
	Kind() Kind
}

// ActionConfig describes something the participant must do on an external platform.
type ActionConfig struct {
	Platform string `json:"platform,omitempty" mapstructure:"platform"`
	Action   string `json:"action,omitempty" mapstructure:"action"`
	Target   string `json:"target,omitempty" mapstructure:"target"`
	Count    int    `json:"count,omitempty" mapstructure:"count"`
}

func (ActionConfig) Kind() Kind { return KindAction }

// ConditionConfig gates progress on an expression evaluated by the backend.
type ConditionConfig struct {
	Expression string `json:"expression,omitempty" mapstructure:"expression"`
	Operator   string `json:"operator,omitempty" mapstructure:"operator"`
	Value      any    `json:"value,omitempty" mapstructure:"value"`
}

func (ConditionConfig) Kind() Kind { return KindCondition }

// RewardConfig describes a payout.
type RewardConfig struct {
	Token     string  `json:"token,omitempty" mapstructure:"token"`
	Amount    float64 `json:"amount,omitempty" mapstructure:"amount"`
	Recipient string  `json:"recipient,omitempty" mapstructure:"recipient"`
}

func (RewardConfig) Kind() Kind { return KindReward }

// VerificationConfig describes how a participant proves completion.
type VerificationConfig struct {
	Method   string `json:"method,omitempty" mapstructure:"method"`
	Proof    string `json:"proof,omitempty" mapstructure:"proof"`
	Required bool   `json:"required,omitempty" mapstructure:"required"`
}

func (VerificationConfig) Kind() Kind { return KindVerification }

// OpaqueConfig is the fallback for kinds this build does not know about.
type OpaqueConfig struct {
	K      Kind
	Values map[string]any
}

func (c OpaqueConfig) Kind() Kind { return c.K }

// DecodeConfig builds the typed view of raw for the given kind.
// Unknown kinds yield an OpaqueConfig holding a copy of raw.
func DecodeConfig(kind Kind, raw map[string]any) (KindConfig, error) {
	var target KindConfig
	switch kind {
	case KindAction:
		target = &ActionConfig{}
	case KindCondition:
		target = &ConditionConfig{}
	case KindReward:
		target = &RewardConfig{}
	case KindVerification:
		target = &VerificationConfig{}
	default:
		return OpaqueConfig{K: kind, Values: cloneMap(raw)}, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", kind, err)
	}

	switch c := target.(type) {
	case *ActionConfig:
		return *c, nil
	case *ConditionConfig:
		return *c, nil
	case *RewardConfig:
		return *c, nil
	case *VerificationConfig:
		return *c, nil
	}
	return target, nil
}

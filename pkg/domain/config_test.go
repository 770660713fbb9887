package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		raw  map[string]any
		want KindConfig
	}{
		{
			name: "action",
			kind: KindAction,
			raw:  map[string]any{"platform": "x", "action": "follow", "target": "@acme", "count": "3"},
			want: ActionConfig{Platform: "x", Action: "follow", Target: "@acme", Count: 3},
		},
		{
			name: "reward with weak numbers",
			kind: KindReward,
			raw:  map[string]any{"token": "ACME", "amount": "12.5"},
			want: RewardConfig{Token: "ACME", Amount: 12.5},
		},
		{
			name: "verification",
			kind: KindVerification,
			raw:  map[string]any{"method": "tx_hash", "required": true},
			want: VerificationConfig{Method: "tx_hash", Required: true},
		},
		{
			name: "condition keeps raw value",
			kind: KindCondition,
			raw:  map[string]any{"expression": "balance", "operator": ">=", "value": 10},
			want: ConditionConfig{Expression: "balance", Operator: ">=", Value: 10},
		},
		{
			name: "empty config",
			kind: KindAction,
			raw:  nil,
			want: ActionConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConfig(tt.kind, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
		})
	}
}

func TestDecodeConfig_UnknownKindIsOpaque(t *testing.T) {
	raw := map[string]any{"question": "2+2?"}
	got, err := DecodeConfig("quiz", raw)
	require.NoError(t, err)

	opaque, ok := got.(OpaqueConfig)
	require.True(t, ok)
	assert.Equal(t, Kind("quiz"), opaque.Kind())
	assert.Equal(t, raw, opaque.Values)

	raw["question"] = "changed"
	assert.Equal(t, "2+2?", opaque.Values["question"])
}

func TestDecodeConfig_InvalidShape(t *testing.T) {
	_, err := DecodeConfig(KindReward, map[string]any{"amount": []any{1, 2}})
	assert.Error(t, err)
}

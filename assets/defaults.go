package assets

import (
	_ "embed"
)

// ProvidersYAML contains the embedded provider catalog: endpoints, auth
// schemes, default models and provider-specific fields.
//
//go:embed defaults/providers.yaml
var ProvidersYAML []byte

// RiskRulesYAML contains the patterns used to flag destructive suggestions.
//
//go:embed defaults/risk_rules.yaml
var RiskRulesYAML []byte

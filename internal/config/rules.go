package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
)

// RulesFile is the HCL form of the house rules, e.g.
//
//	starting_chips       = 200
//	dealer_stands_on     = 17
//	turn_timeout_seconds = 30
type RulesFile struct {
	StartingChips      int  `hcl:"starting_chips,optional"`
	DealerStandsOn     int  `hcl:"dealer_stands_on,optional"`
	AIStandsOn         int  `hcl:"ai_stands_on,optional"`
	AIMinBet           int  `hcl:"ai_min_bet,optional"`
	AIMaxBet           int  `hcl:"ai_max_bet,optional"`
	TurnTimeoutSeconds *int `hcl:"turn_timeout_seconds,optional"`
}

// LoadRules reads house rules from an HCL file. A missing file gives the
// default rules; unset or zero values take their defaults.
func LoadRules(filename string) (blackjack.Rules, error) {
	defaults := blackjack.DefaultRules()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return defaults, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return blackjack.Rules{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw RulesFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return blackjack.Rules{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	rules := raw.toRules(defaults)
	if err := rules.Validate(); err != nil {
		return blackjack.Rules{}, fmt.Errorf("invalid rules in %s: %w", filename, err)
	}
	return rules, nil
}

func (f RulesFile) toRules(defaults blackjack.Rules) blackjack.Rules {
	rules := blackjack.Rules{
		StartingChips:  orDefault(f.StartingChips, defaults.StartingChips),
		DealerStandsOn: orDefault(f.DealerStandsOn, defaults.DealerStandsOn),
		AIStandsOn:     orDefault(f.AIStandsOn, defaults.AIStandsOn),
		AIMinBet:       orDefault(f.AIMinBet, defaults.AIMinBet),
		AIMaxBet:       orDefault(f.AIMaxBet, defaults.AIMaxBet),
		TurnTimeout:    defaults.TurnTimeout,
	}
	// An explicit zero switches the countdown off
	if f.TurnTimeoutSeconds != nil {
		rules.TurnTimeout = time.Duration(*f.TurnTimeoutSeconds) * time.Second
	}
	return rules
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

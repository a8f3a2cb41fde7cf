// Package chc is the constrained-Horn-clause reachability oracle: it accepts
// relation declarations and implication rules, answers reachability queries,
// and reconstructs a solver-independent counterexample graph from the
// engine's ground refutation proof.
package chc

import "hornet/internal/horn"

// Config carries the fixed engine tuning, applied once per solver instance.
// The defaults are the only supported configuration for counterexample
// extraction: the transformation passes are disabled exactly because they
// make the refutation proof's hyper-resolution operand layout unpredictable.
type Config struct {
	// GeneralizeQuantifiedLemmas enables the quantified lemma generalizer,
	// which helps on array- and loop-heavy rule systems.
	GeneralizeQuantifiedLemmas bool `yaml:"generalize_quantified_lemmas"`
	// ModelBasedQuantInstantiation enables model-based quantifier
	// instantiation.
	ModelBasedQuantInstantiation bool `yaml:"model_based_quant_instantiation"`
	// GroundProofObligations grounds proof obligations using model values.
	GroundProofObligations bool `yaml:"ground_proof_obligations"`
	// SliceTransformation enables the proof-transformation slicing pass.
	SliceTransformation bool `yaml:"slice_transformation"`
	// InlineLinearEager and InlineLinearLazy enable linear-clause inlining.
	InlineLinearEager bool `yaml:"inline_linear_eager"`
	InlineLinearLazy  bool `yaml:"inline_linear_lazy"`

	// ResourceLimit is the computation-step budget per query. Zero uses the
	// process-wide limit (horn.SetResourceLimit).
	ResourceLimit uint64 `yaml:"resource_limit"`
}

// DefaultConfig returns the fixed tuning: quantified lemma generalization on,
// everything that would reshape the refutation proof off.
func DefaultConfig() Config {
	return Config{
		GeneralizeQuantifiedLemmas:   true,
		ModelBasedQuantInstantiation: false,
		GroundProofObligations:       false,
		SliceTransformation:          false,
		InlineLinearEager:            false,
		InlineLinearLazy:             false,
	}
}

func (c Config) engineConfig() horn.Config {
	return horn.Config{ResourceLimit: c.ResourceLimit}
}

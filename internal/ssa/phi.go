package ssa

// SimplifyPhi detects a trivial phi (§4.7, §3 invariant 5): a Phi whose
// arguments, once self-references to insID are removed, agree on a single
// value.
//
// Returns (id, true) if the phi can be replaced by id. Returns (zero, false)
// if the phi is either unreachable or sits in the entry block and may be
// safely deleted — callers must disambiguate those two cases using block
// position, since SimplifyPhi can't tell them apart from the arguments
// alone (§9 open question).
func SimplifyPhi(insID NodeId, phiArguments []PhiArg) (NodeId, bool) {
	var same NodeId
	haveSame := false

	for _, arg := range phiArguments {
		if (haveSame && arg.Value == same) || arg.Value == insID {
			continue
		}
		if haveSame {
			// Two distinct incoming values: not trivial.
			return insID, true
		}
		same = arg.Value
		haveSame = true
	}

	if !haveSame {
		return NodeId{}, false
	}
	return same, true
}

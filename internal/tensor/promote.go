package tensor

// category orders dtypes coarsely: bool < integral < floating.
func category(dt DataType) int {
	switch {
	case dt == Bool:
		return 0
	case dt.IsIntegral():
		return 1
	default:
		return 2
	}
}

// PromoteTypes returns the smallest type both a and b convert to without
// changing category. Over the supported types this is the later of the two
// in declaration order (bool < uint8 < int32 < int64 < float32 < float64).
func PromoteTypes(a, b DataType) DataType {
	if a > b {
		return a
	}
	return b
}

// CanCast reports whether a result of type from may be written into a
// tensor of type to without moving to a lower category (e.g. float into int).
func CanCast(from, to DataType) bool {
	return category(from) <= category(to)
}

// ResultType computes the dtype of an elementwise operation over operands.
//
// Dimensioned operands (rank > 0) promote among themselves. Zero-dimensional
// operands only influence the result when they belong to a higher category
// than every dimensioned operand:
//
//	int32[3]   + float64[] → float64  (zero-dim float outranks ints)
//	float32[3] + float64[] → float32  (same category, dimensioned wins)
//	uint8[3]   + int64[]   → uint8
//	bool[3]    + int64[]   → int64
func ResultType(operands ...*RawTensor) DataType {
	var dimResult, zeroResult DataType
	hasDim, hasZero := false, false
	for _, op := range operands {
		if op.Rank() == 0 {
			if hasZero {
				zeroResult = PromoteTypes(zeroResult, op.dtype)
			} else {
				zeroResult, hasZero = op.dtype, true
			}
			continue
		}
		if hasDim {
			dimResult = PromoteTypes(dimResult, op.dtype)
		} else {
			dimResult, hasDim = op.dtype, true
		}
	}

	switch {
	case !hasDim:
		return zeroResult
	case !hasZero:
		return dimResult
	}
	return combineCategories(dimResult, zeroResult)
}

// combineCategories merges a higher-priority result with a lower-priority one.
func combineCategories(higher, lower DataType) DataType {
	if higher.IsFloating() {
		return higher
	}
	if higher == Bool || lower.IsFloating() {
		return PromoteTypes(higher, lower)
	}
	return higher
}

package rules

import "succession-engine/internal/model"

// Degree returns the degree of kinship used by the fente to select, inside
// each line, the closest relatives (Art. 744 CC).
func Degree(rel model.Relationship) int {
	switch rel {
	case model.RelChild, model.RelParent:
		return 1
	case model.RelSibling, model.RelGrandchild:
		return 2
	case model.RelNephewNiece, model.RelGreatGrandchild:
		return 3
	default:
		return 99
	}
}

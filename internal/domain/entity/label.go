package entity

// ClassLabel is one of the diagnostic classes the classifier distinguishes.
type ClassLabel string

const (
	LabelHealthy    ClassLabel = "healthy"
	LabelCavity     ClassLabel = "cavity"
	LabelGumDisease ClassLabel = "gum_disease"
)

// NumClasses is the length of the classifier's confidence vector.
const NumClasses = 3

// Labels returns the class set in classifier output order. Index positions
// are fixed: 0 healthy, 1 cavity, 2 gum_disease.
func Labels() []ClassLabel {
	return []ClassLabel{LabelHealthy, LabelCavity, LabelGumDisease}
}

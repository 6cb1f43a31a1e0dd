package entity

const (
	// highConfidence switches the advisory wording from "possible" to
	// "detected".
	highConfidence = 0.8

	// overlayThreshold gates heatmap rendering. Strictly greater than:
	// a score of exactly 0.5 draws no overlay.
	overlayThreshold = 0.5
)

// Diagnosis is the interpreted classifier output for a single image.
type Diagnosis struct {
	Prediction ClassLabel
	Confidence float32
	Scores     map[ClassLabel]float32
	Message    string
}

type advisory struct {
	High string
	Low  string
}

var advisories = map[ClassLabel]advisory{
	LabelHealthy: {
		High: "The dental X-ray appears healthy with no signs of cavities or gum disease.",
		Low:  "The dental X-ray appears mostly healthy, but consider a professional examination.",
	},
	LabelCavity: {
		High: "Potential cavity detected. Please consult with a dentist for proper diagnosis and treatment.",
		Low:  "Possible cavity detected. Recommend professional dental examination for confirmation.",
	},
	LabelGumDisease: {
		High: "Signs of gum disease detected. Please schedule an appointment with your dentist.",
		Low:  "Possible gum disease indicators. Recommend professional dental consultation.",
	},
}

const advisoryFallback = "Analysis complete. Please consult with a dental professional for proper diagnosis."

// Argmax returns the index of the largest score. Ties resolve to the
// earliest index, so exact ties prefer healthy over cavity over gum_disease.
func Argmax(scores []float32) int {
	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}
	return best
}

// NeedsOverlay reports whether a heatmap overlay should be drawn for the
// given scores. Only non-healthy predictions above the confidence gate
// get one.
func NeedsOverlay(scores []float32) bool {
	if len(scores) == 0 {
		return false
	}
	idx := Argmax(scores)
	return idx > 0 && scores[idx] > overlayThreshold
}

// Interpret zips the fixed label order with the confidence vector and
// derives the predicted class, its confidence and the advisory message.
// Pure function of the input vector.
func Interpret(scores []float32) Diagnosis {
	labels := Labels()

	byLabel := make(map[ClassLabel]float32, len(labels))
	for i, label := range labels {
		if i < len(scores) {
			byLabel[label] = scores[i]
		}
	}

	idx := Argmax(scores)
	var prediction ClassLabel
	var confidence float32
	if idx < len(labels) && idx < len(scores) {
		prediction = labels[idx]
		confidence = scores[idx]
	}

	return Diagnosis{
		Prediction: prediction,
		Confidence: confidence,
		Scores:     byLabel,
		Message:    adviceFor(prediction, confidence),
	}
}

func adviceFor(label ClassLabel, confidence float32) string {
	adv, ok := advisories[label]
	if !ok {
		return advisoryFallback
	}
	if confidence > highConfidence {
		return adv.High
	}
	return adv.Low
}

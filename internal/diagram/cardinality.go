package diagram

import "evalgo.org/erdgen/models"

// Cardinality is the pair of endpoint labels and marker kinds for one reference.
type Cardinality struct {
	StartLabel  models.Label
	EndLabel    models.Label
	StartMarker models.MarkerKind
	EndMarker   models.MarkerKind
}

// Resolve returns the endpoint labels and markers for a reference kind.
//
// Many-to-many is drawn "*" to "*". Resolve is only defined for valid kinds;
// the builders reject anything else before calling it.
func Resolve(kind models.RefKind) Cardinality {
	var start, end models.Label
	switch kind {
	case models.OneToMany:
		start, end = models.LabelOne, models.LabelMany
	case models.ManyToOne:
		start, end = models.LabelMany, models.LabelOne
	case models.OneToOne:
		start, end = models.LabelOne, models.LabelOne
	case models.ManyToMany:
		start, end = models.LabelMany, models.LabelMany
	default:
		return Cardinality{}
	}

	return Cardinality{
		StartLabel:  start,
		EndLabel:    end,
		StartMarker: MarkerFor(start),
		EndMarker:   MarkerFor(end),
	}
}

// MarkerFor maps a label to its marker: "1" is drawn as one, anything else as many.
func MarkerFor(label models.Label) models.MarkerKind {
	if label == models.LabelOne {
		return models.MarkerOne
	}
	return models.MarkerMany
}

package models

// BEL relation types.
const (
	RelationIncreases         = "increases"
	RelationDirectlyIncreases = "directlyIncreases"
	RelationDecreases         = "decreases"
	RelationDirectlyDecreases = "directlyDecreases"
	RelationPositiveCorr      = "positiveCorrelation"
	RelationNegativeCorr      = "negativeCorrelation"
	RelationAssociation       = "association"
	RelationOrthologous       = "orthologous"
	RelationAnalogous         = "analogousTo"
	RelationIsA               = "isA"
	RelationPartOf            = "partOf"
	RelationHasComponent      = "hasComponent"
	RelationHasVariant        = "hasVariant"
	RelationHasMember         = "hasMember"
	RelationRateLimiting      = "rateLimitingStepOf"
	RelationSubProcessOf      = "subProcessOf"
	RelationTranscribedTo     = "transcribedTo"
	RelationTranslatedTo      = "translatedTo"
	RelationBiomarkerFor      = "biomarkerFor"
	RelationPrognosticFor     = "prognosticBiomarkerFor"
	RelationCausesNoChange    = "causesNoChange"
	RelationRegulates         = "regulates"
)

var symmetricRelations = map[string]struct{}{
	RelationPositiveCorr: {},
	RelationNegativeCorr: {},
	RelationAssociation:  {},
	RelationOrthologous:  {},
	RelationAnalogous:    {},
}

// IsSymmetric reports whether the relation carries no direction, so an edge
// a->b implies the same statement b->a.
func IsSymmetric(relation string) bool {
	_, ok := symmetricRelations[relation]
	return ok
}

// CitationTypePubMed marks citations whose reference is a PubMed identifier.
const CitationTypePubMed = "PubMed"

// Citation identifies the publication an edge was extracted from. Authors
// power the provenance seed and author suggestions.
type Citation struct {
	Type      string   `json:"type,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Authors   []string `json:"authors,omitempty"`
}

// Edge represents a typed biological relationship between two nodes. Source
// and Target reference node IDs. Annotations hold the biological context
// (cell line, tissue, species, ...) the statement was made under.
type Edge struct {
	Source      string              `json:"source"`
	Target      string              `json:"target"`
	Relation    string              `json:"relation"`
	Evidence    string              `json:"evidence,omitempty"`
	Citation    Citation            `json:"citation"`
	Annotations map[string][]string `json:"annotations,omitempty"`
}

// Triple returns the canonical "source relation target" form used to address
// an edge in selections.
func (e Edge) Triple() string {
	return e.Source + " " + e.Relation + " " + e.Target
}

// Edge end markers for rendering.
const (
	MarkerNone  = ""
	MarkerArrow = "arrow"
	MarkerStub  = "stub"
)

// Glyph describes how an edge is drawn: which marker each end carries and
// whether the line is dashed.
type Glyph struct {
	SourceMarker string `json:"source_marker,omitempty"`
	TargetMarker string `json:"target_marker,omitempty"`
	Dashed       bool   `json:"dashed,omitempty"`
}

// EdgeGlyph maps a relation to its visual form: causal increases get an
// arrowhead, decreases a stub bar, correlations mark both ends, and every
// other relation renders as a dashed unmarked line.
func EdgeGlyph(relation string) Glyph {
	switch relation {
	case RelationIncreases, RelationDirectlyIncreases, RelationRateLimiting:
		return Glyph{TargetMarker: MarkerArrow}
	case RelationDecreases, RelationDirectlyDecreases:
		return Glyph{TargetMarker: MarkerStub}
	case RelationPositiveCorr:
		return Glyph{SourceMarker: MarkerArrow, TargetMarker: MarkerArrow}
	case RelationNegativeCorr:
		return Glyph{SourceMarker: MarkerStub, TargetMarker: MarkerStub}
	default:
		return Glyph{Dashed: true}
	}
}

package explore

// pathPalette holds the colors cycled through when emphasizing paths. With
// more paths than colors the palette wraps around.
var pathPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	"#aec7e8", "#ffbb78", "#98df8a", "#ff9896", "#c5b0d5",
	"#c49c94", "#f7b6d2", "#c7c7c7", "#dbdb8d", "#9edae5",
	"#393b79", "#5254a3", "#6b6ecf", "#9c9ede", "#637939",
	"#8ca252", "#b5cf6b", "#cedb9c", "#8c6d31", "#bd9e39",
	"#e7ba52", "#e7cb94", "#843c39", "#ad494a", "#d6616b",
	"#e7969c", "#7b4173",
}

// PaletteSize returns the number of distinct path colors.
func PaletteSize() int { return len(pathPalette) }

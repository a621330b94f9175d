package content

// Style is the presentation a card variant maps to.
type Style struct {
	Accent string `json:"accent"`
	Icon   string `json:"icon"`
	Layout string `json:"layout"`
}

var styles = map[Variant]Style{
	VariantDefault:  {Accent: "#111111", Icon: "sparkle", Layout: "stack"},
	VariantClient:   {Accent: "#2f6fed", Icon: "briefcase", Layout: "logo-grid"},
	VariantProject:  {Accent: "#f25c2a", Icon: "film", Layout: "hero"},
	VariantIP:       {Accent: "#8a3ffc", Icon: "crown", Layout: "poster"},
	VariantSeasonal: {Accent: "#0e9f6e", Icon: "snowflake", Layout: "immersive"},
}

// StyleFor returns the style of v. Unknown and empty variants get the
// default style and ok=false.
func StyleFor(v Variant) (Style, bool) {
	s, ok := styles[v]
	if !ok {
		return styles[VariantDefault], false
	}
	return s, true
}

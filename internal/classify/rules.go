package classify

// Rule assigns a category and subcategory when any keyword occurs in the
// lower-cased search string. Keywords may carry leading or trailing spaces
// to anchor them to word edges.
type Rule struct {
	Category    string   `yaml:"category" json:"category"`
	Subcategory string   `yaml:"subcategory" json:"subcategory"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
}

// Fallback labels.
const (
	CategoryBundle     = "Combos y Packs"
	CategoryOther      = "Otros"
	SubcategoryUnknown = "Sin categoría"
	SubcategoryMass    = "Combo de Volumen/Masa"
	SubcategoryDefine  = "Combo de Definición"
	SubcategorySavings = "Pack de Ahorro"
)

// Bundle keyword groups. The first group gates the bundle branch; the
// remaining groups pick its subcategory in order.
var (
	bundleKeywords   = []string{"combo", "pack", "kit"}
	bundleMass       = []string{"mass", "gainer", "creatina"}
	bundleDefinition = []string{"burn", "defin", "iso", "carnit", "cla"}
	bundleMultipack  = []string{"x2", "x3", "2x", "3x", "duo", "trio"}
)

// defaultRules is evaluated top to bottom. Order is significant: an item
// matching several rules takes the first.
var defaultRules = []Rule{
	{"Proteínas", "Proteína de Suero (Whey Protein)", []string{"whey", "suero", "100% whey"}},
	{"Proteínas", "Proteína Aislada/Hidrolizada (Isolate/Hydrolyzed)", []string{"isolate", "iso 100", "aislada", "hydro"}},
	{"Proteínas", "Proteínas Hipercalóricas (Mass Gainers)", []string{"mass", "gainer", "hipercal", "mega gainer", "serious mass"}},
	{"Proteínas", "Proteína Vegana (Vegan Protein)", []string{"vegan", "vegana", "plant", "vegetal", "soya", "pea"}},
	{"Proteínas", "Caseína (Casein)", []string{"casein", "caseína"}},
	{"Proteínas", "Barras y Snacks de Proteína", []string{"barra", "bar ", "bar-", "snack", "bite"}},
	{"Aminoácidos", "BCAA", []string{"bcaa", "branched chain"}},
	{"Aminoácidos", "Glutamina", []string{"glutamine", "glutamina"}},
	{"Aminoácidos", "L-Carnitina", []string{"carnitine", "carnitina", "acetyl"}},
	{"Aminoácidos", "EAA / Mezclas", []string{"eaa", "amino ", "amino-", "essential amino"}},
	{"Rendimiento y Energía", "Pre-Entrenos (Pre-Workouts)", []string{"pre-workout", "preworkout", "pre workout", "pump", "c4"}},
	{"Rendimiento y Energía", "Creatina", []string{"creatine", "creatina", "micronized", "monohydrate"}},
	{"Rendimiento y Energía", "Reguladores Hormonales", []string{"tribulus", "test ", "testo", "testosterone", "hormonal"}},
	{"Control de Peso", "Quemadores de Grasa / Termogénicos", []string{"burn", "termog", "thermo", "lipo", "cut"}},
	{"Control de Peso", "CLA", []string{" cla", "cla ", "linoleic"}},
	{"Salud y Bienestar", "Vitaminas y Minerales", []string{"vitamin", "multi", "miner", "opti-men", "opti-women"}},
	{"Salud y Bienestar", "Colágeno", []string{"collagen", "colageno", "colágeno"}},
	{"Salud y Bienestar", "Omega 3", []string{"omega", "fish oil", "aceite de pescado"}},
	{"Accesorios", "Shakers y Botellas", []string{"shaker", "bottle", "botella"}},
	{"Accesorios", "Ropa y Otros", []string{"gorra", "camiseta", "apparel", "towel"}},
}

// DefaultRules returns a copy of the built-in rule table.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = Rule{
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Keywords:    append([]string(nil), r.Keywords...),
		}
	}
	return out
}

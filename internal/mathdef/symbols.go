package mathdef

// italicSymbols are commands typeset in the italic math font, following
// the TeX convention that lowercase Greek slants while uppercase stays
// upright.
var italicSymbols = map[string]string{
	"alpha":      "α",
	"beta":       "β",
	"gamma":      "γ",
	"delta":      "δ",
	"epsilon":    "ϵ",
	"varepsilon": "ε",
	"zeta":       "ζ",
	"eta":        "η",
	"theta":      "θ",
	"vartheta":   "ϑ",
	"iota":       "ι",
	"kappa":      "κ",
	"lambda":     "λ",
	"mu":         "μ",
	"nu":         "ν",
	"xi":         "ξ",
	"pi":         "π",
	"varpi":      "ϖ",
	"rho":        "ρ",
	"varrho":     "ϱ",
	"sigma":      "σ",
	"varsigma":   "ς",
	"tau":        "τ",
	"upsilon":    "υ",
	"phi":        "ϕ",
	"varphi":     "φ",
	"chi":        "χ",
	"psi":        "ψ",
	"omega":      "ω",
	"ell":        "ℓ",
	"hbar":       "ℏ",
	"imath":      "ı",
	"jmath":      "ȷ",
}

// plainSymbols are commands typeset in the upright main font.
var plainSymbols = map[string]string{
	"Gamma":   "Γ",
	"Delta":   "Δ",
	"Theta":   "Θ",
	"Lambda":  "Λ",
	"Xi":      "Ξ",
	"Pi":      "Π",
	"Sigma":   "Σ",
	"Upsilon": "Υ",
	"Phi":     "Φ",
	"Psi":     "Ψ",
	"Omega":   "Ω",

	"times":      "×",
	"div":        "÷",
	"cdot":       "⋅",
	"pm":         "±",
	"mp":         "∓",
	"ast":        "∗",
	"star":       "⋆",
	"circ":       "∘",
	"bullet":     "∙",
	"oplus":      "⊕",
	"ominus":     "⊖",
	"otimes":     "⊗",
	"leq":        "≤",
	"le":         "≤",
	"geq":        "≥",
	"ge":         "≥",
	"neq":        "≠",
	"ne":         "≠",
	"approx":     "≈",
	"equiv":      "≡",
	"sim":        "∼",
	"simeq":      "≃",
	"cong":       "≅",
	"propto":     "∝",
	"ll":         "≪",
	"gg":         "≫",
	"prec":       "≺",
	"succ":       "≻",
	"in":         "∈",
	"notin":      "∉",
	"ni":         "∋",
	"subset":     "⊂",
	"supset":     "⊃",
	"subseteq":   "⊆",
	"supseteq":   "⊇",
	"cup":        "∪",
	"cap":        "∩",
	"setminus":   "∖",
	"emptyset":   "∅",
	"varnothing": "∅",
	"forall":     "∀",
	"exists":     "∃",
	"nexists":    "∄",
	"neg":        "¬",
	"lnot":       "¬",
	"land":       "∧",
	"wedge":      "∧",
	"lor":        "∨",
	"vee":        "∨",
	"implies":    "⟹",
	"iff":        "⟺",

	"to":             "→",
	"gets":           "←",
	"rightarrow":     "→",
	"leftarrow":      "←",
	"leftrightarrow": "↔",
	"Rightarrow":     "⇒",
	"Leftarrow":      "⇐",
	"Leftrightarrow": "⇔",
	"mapsto":         "↦",
	"uparrow":        "↑",
	"downarrow":      "↓",

	"infty":    "∞",
	"partial":  "∂",
	"nabla":    "∇",
	"perp":     "⊥",
	"parallel": "∥",
	"mid":      "∣",
	"angle":    "∠",
	"triangle": "△",
	"aleph":    "ℵ",
	"Re":       "ℜ",
	"Im":       "ℑ",
	"wp":       "℘",
	"prime":    "′",
	"degree":   "°",
	"ldots":    "…",
	"cdots":    "⋯",
	"vdots":    "⋮",
	"ddots":    "⋱",
	"dots":     "…",
	"langle":   "⟨",
	"rangle":   "⟩",
	"lfloor":   "⌊",
	"rfloor":   "⌋",
	"lceil":    "⌈",
	"rceil":    "⌉",
}

// largeOperators render in the size font and carry their limits as
// ordinary scripts.
var largeOperators = map[string]string{
	"sum":       "∑",
	"prod":      "∏",
	"coprod":    "∐",
	"int":       "∫",
	"iint":      "∬",
	"iiint":     "∭",
	"oint":      "∮",
	"bigcup":    "⋃",
	"bigcap":    "⋂",
	"bigvee":    "⋁",
	"bigwedge":  "⋀",
	"bigoplus":  "⨁",
	"bigotimes": "⨂",
}

// namedFunctions typeset upright, like \lim or \sin.
var namedFunctions = map[string]string{
	"lim":    "lim",
	"liminf": "lim inf",
	"limsup": "lim sup",
	"log":    "log",
	"ln":     "ln",
	"lg":     "lg",
	"exp":    "exp",
	"sin":    "sin",
	"cos":    "cos",
	"tan":    "tan",
	"cot":    "cot",
	"sec":    "sec",
	"csc":    "csc",
	"arcsin": "arcsin",
	"arccos": "arccos",
	"arctan": "arctan",
	"sinh":   "sinh",
	"cosh":   "cosh",
	"tanh":   "tanh",
	"min":    "min",
	"max":    "max",
	"inf":    "inf",
	"sup":    "sup",
	"arg":    "arg",
	"det":    "det",
	"dim":    "dim",
	"ker":    "ker",
	"gcd":    "gcd",
	"deg":    "deg",
	"mod":    "mod",
	"Pr":     "Pr",
}

// blackboard maps \mathbb arguments onto double-struck codepoints.
var blackboard = map[rune]string{
	'A': "\U0001d538", 'B': "\U0001d539", 'C': "ℂ", 'D': "\U0001d53b",
	'E': "\U0001d53c", 'F': "\U0001d53d", 'G': "\U0001d53e", 'H': "ℍ",
	'I': "\U0001d540", 'J': "\U0001d541", 'K': "\U0001d542", 'L': "\U0001d543",
	'M': "\U0001d544", 'N': "ℕ", 'O': "\U0001d546", 'P': "ℙ",
	'Q': "ℚ", 'R': "ℝ", 'S': "\U0001d54a", 'T': "\U0001d54b",
	'U': "\U0001d54c", 'V': "\U0001d54d", 'W': "\U0001d54e", 'X': "\U0001d54f",
	'Y': "\U0001d550", 'Z': "ℤ",
}

// charCommands are single-character commands: character escapes, spacing
// adjustments, and the forced line break.
var charCommands = map[rune]string{
	'{':  "{",
	'}':  "}",
	'$':  "$",
	'%':  "%",
	'#':  "#",
	'_':  "_",
	'&':  "&amp;",
	'|':  "‖",
	',':  " ",
	':':  " ",
	';':  " ",
	'!':  "",
	' ':  " ",
	'\\': "<br/>",
}

package typst

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	errUnbalanced      = errors.New("unbalanced braces")
	errMissingArgument = errors.New("missing argument")
)

// symbols maps LaTeX commands to Typst math symbols and operators.
var symbols = map[string]string{
	"infty":          "infinity",
	"cdot":           "dot",
	"times":          "times",
	"div":            "div",
	"pm":             "plus.minus",
	"mp":             "minus.plus",
	"leq":            "<=",
	"le":             "<=",
	"geq":            ">=",
	"ge":             ">=",
	"neq":            "!=",
	"ne":             "!=",
	"approx":         "approx",
	"equiv":          "equiv",
	"sim":            "tilde.op",
	"simeq":          "tilde.eq",
	"propto":         "prop",
	"to":             "->",
	"rightarrow":     "->",
	"leftarrow":      "<-",
	"gets":           "<-",
	"Rightarrow":     "=>",
	"Leftarrow":      "arrow.l.double",
	"Leftrightarrow": "<=>",
	"leftrightarrow": "<->",
	"implies":        "=>",
	"iff":            "<=>",
	"mapsto":         "|->",
	"in":             "in",
	"notin":          "in.not",
	"ni":             "in.rev",
	"subset":         "subset",
	"subseteq":       "subset.eq",
	"supset":         "supset",
	"supseteq":       "supset.eq",
	"cup":            "union",
	"cap":            "sect",
	"setminus":       "without",
	"emptyset":       "emptyset",
	"varnothing":     "emptyset",
	"forall":         "forall",
	"exists":         "exists",
	"neg":            "not",
	"lnot":           "not",
	"land":           "and",
	"wedge":          "and",
	"lor":            "or",
	"vee":            "or",
	"partial":        "diff",
	"nabla":          "nabla",
	"sum":            "sum",
	"prod":           "product",
	"int":            "integral",
	"iint":           "integral.double",
	"iiint":          "integral.triple",
	"oint":           "integral.cont",
	"ldots":          "dots",
	"dots":           "dots",
	"cdots":          "dots.c",
	"vdots":          "dots.v",
	"ddots":          "dots.down",
	"circ":           "compose",
	"degree":         "degree",
	"angle":          "angle",
	"perp":           "perp",
	"parallel":       "parallel",
	"mid":            "|",
	"langle":         "angle.l",
	"rangle":         "angle.r",
	"lceil":          "ceil.l",
	"rceil":          "ceil.r",
	"lfloor":         "floor.l",
	"rfloor":         "floor.r",
	"lvert":          "|",
	"rvert":          "|",
	"vert":           "|",
	"Vert":           "||",
	"quad":           "quad",
	"qquad":          "wide",
	"prime":          "prime",
	"hbar":           "planck.reduce",
	"ell":            "ell",
	"Re":             "Re",
	"Im":             "Im",
	"aleph":          "aleph",
	"star":           "star",
	"ast":            "ast",
	"bullet":         "bullet",
	"oplus":          "plus.circle",
	"otimes":         "times.circle",
	"top":            "top",
	"bot":            "bot",
	"therefore":      "therefore",
	"because":        "because",
	"varepsilon":     "epsilon",
	"epsilon":        "epsilon.alt",
	"varphi":         "phi",
	"phi":            "phi.alt",
	"vartheta":       "theta.alt",
}

// ignored commands only affect LaTeX layout.
var ignored = map[string]bool{
	"limits":       true,
	"nolimits":     true,
	"displaystyle": true,
	"textstyle":    true,
	"scriptstyle":  true,
	"nonumber":     true,
	"notag":        true,
	"big":          true,
	"Big":          true,
	"bigg":         true,
	"Bigg":         true,
	"bigl":         true,
	"bigr":         true,
	"Bigl":         true,
	"Bigr":         true,
}

// wrappers map one-argument LaTeX commands to Typst functions.
var wrappers = map[string]string{
	"mathbf":         "bold",
	"boldsymbol":     "bold",
	"bm":             "bold",
	"mathit":         "italic",
	"mathrm":         "upright",
	"mathbb":         "bb",
	"mathcal":        "cal",
	"mathfrak":       "frak",
	"mathsf":         "sans",
	"mathtt":         "mono",
	"hat":            "hat",
	"widehat":        "hat",
	"bar":            "overline",
	"overline":       "overline",
	"underline":      "underline",
	"vec":            "arrow",
	"overrightarrow": "arrow",
	"tilde":          "tilde",
	"widetilde":      "tilde",
	"dot":            "dot",
	"ddot":           "dot.double",
	"abs":            "abs",
	"norm":           "norm",
}

// textCommands take a literal text argument.
var textCommands = map[string]bool{
	"text":   true,
	"textrm": true,
	"textit": true,
	"textbf": true,
	"mbox":   true,
}

var environments = map[string]string{
	"matrix":   "mat(delim: #none, ",
	"pmatrix":  "mat(",
	"bmatrix":  `mat(delim: "[", `,
	"Bmatrix":  `mat(delim: "{", `,
	"vmatrix":  `mat(delim: "|", `,
	"Vmatrix":  `mat(delim: "||", `,
	"cases":    "cases(",
	"aligned":  "",
	"align":    "",
	"align*":   "",
	"gathered": "",
	"split":    "",
	"equation": "",
}

var (
	spaceRunRe  = regexp.MustCompile(` {2,}`)
	separatorRe = regexp.MustCompile(`\s*([,;])\s*`)
)

// TranslateMath converts a LaTeX math expression to Typst math. The
// translation is best-effort: unknown commands are emitted by name, and an
// error is returned only for input that cannot be parsed.
func TranslateMath(latex string) (string, error) {
	latex = strings.ReplaceAll(latex, "√", `\sqrt `)

	p := &mathParser{src: []rune(latex)}
	var w mathWriter
	if err := p.sequence(&w, 0); err != nil {
		return "", err
	}
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(w.String(), " ")), nil
}

// mathWriter accumulates Typst math, separating adjacent letters so they
// are not read as a single multi-letter identifier.
type mathWriter struct {
	strings.Builder
	last rune
}

func (w *mathWriter) emit(s string) {
	if s == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(s)
	if unicode.IsLetter(w.last) && (unicode.IsLetter(first) || unicode.IsDigit(first)) {
		w.WriteByte(' ')
	}
	w.WriteString(s)
	w.last, _ = utf8.DecodeLastRuneInString(s)
}

type mathParser struct {
	src   []rune
	pos   int
	envs  []string
	ended bool // an \end closed the innermost environment
}

func (p *mathParser) eof() bool { return p.pos >= len(p.src) }

func (p *mathParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// sequence translates tokens into w until closing is consumed, or until
// the end of input when closing is zero.
func (p *mathParser) sequence(w *mathWriter, closing rune) error {
	for {
		if p.eof() {
			if closing != 0 {
				return errUnbalanced
			}
			return nil
		}
		r := p.src[p.pos]
		switch {
		case closing != 0 && r == closing:
			p.pos++
			return nil
		case r == '}':
			return errUnbalanced
		case r == '{':
			p.pos++
			if err := p.sequence(w, '}'); err != nil {
				return err
			}
		case r == '^' || r == '_':
			p.pos++
			arg, grouped, err := p.argument()
			if err != nil {
				return err
			}
			if grouped && utf8.RuneCountInString(arg) > 1 {
				w.emit(string(r) + "(" + arg + ")")
			} else {
				w.emit(string(r) + arg)
			}
		case r == '&':
			p.pos++
			w.emit(p.cellSeparator())
		case r == '\\':
			if err := p.command(w); err != nil {
				return err
			}
			if p.ended {
				if closing != 0 {
					return errUnbalanced
				}
				return nil
			}
		default:
			p.pos++
			w.emit(translateChar(r))
		}
	}
}

// argument reads one command argument: a braced group, a command, or a
// single character. grouped reports whether it was braced.
func (p *mathParser) argument() (arg string, grouped bool, err error) {
	p.skipSpace()
	if p.eof() {
		return "", false, errMissingArgument
	}
	var w mathWriter
	switch r := p.src[p.pos]; r {
	case '{':
		p.pos++
		if err := p.sequence(&w, '}'); err != nil {
			return "", false, err
		}
		return strings.TrimSpace(w.String()), true, nil
	case '\\':
		if err := p.command(&w); err != nil {
			return "", false, err
		}
		if p.ended {
			return "", false, errMissingArgument
		}
		return w.String(), false, nil
	case '}':
		return "", false, errMissingArgument
	default:
		p.pos++
		return translateChar(r), false, nil
	}
}

// literal reads a braced argument verbatim, or a single character.
func (p *mathParser) literal() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", errMissingArgument
	}
	if p.src[p.pos] != '{' {
		r := p.src[p.pos]
		p.pos++
		return string(r), nil
	}
	depth := 0
	for i := p.pos; i < len(p.src); i++ {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s := string(p.src[p.pos+1 : i])
				p.pos = i + 1
				return s, nil
			}
		}
	}
	return "", errUnbalanced
}

func (p *mathParser) command(w *mathWriter) error {
	p.pos++ // backslash
	if p.eof() {
		return errors.New("trailing backslash")
	}

	if !isASCIILetter(p.src[p.pos]) {
		c := p.src[p.pos]
		p.pos++
		w.emit(escapedSymbol(c, p.rowSeparator()))
		return nil
	}

	start := p.pos
	for !p.eof() && isASCIILetter(p.src[p.pos]) {
		p.pos++
	}
	name := string(p.src[start:p.pos])

	switch {
	case name == "begin":
		env, err := p.literal()
		if err != nil {
			return err
		}
		return p.environment(w, env)
	case name == "end":
		env, err := p.literal()
		if err != nil {
			return err
		}
		if len(p.envs) == 0 || p.envs[len(p.envs)-1] != env {
			return fmt.Errorf(`unexpected \end{%s}`, env)
		}
		p.ended = true
		return nil
	case name == "frac" || name == "dfrac" || name == "tfrac" || name == "cfrac":
		return p.call(w, "frac", 2)
	case name == "binom" || name == "dbinom" || name == "tbinom":
		return p.call(w, "binom", 2)
	case name == "sqrt":
		return p.sqrt(w)
	case name == "left" || name == "right":
		return p.delimiter(w)
	case name == "operatorname":
		op, err := p.literal()
		if err != nil {
			return err
		}
		w.emit(`op("` + quote(op) + `")`)
		return nil
	case textCommands[name]:
		text, err := p.literal()
		if err != nil {
			return err
		}
		w.emit(`"` + quote(text) + `"`)
		return nil
	case ignored[name]:
		return nil
	}

	if fn, ok := wrappers[name]; ok {
		return p.call(w, fn, 1)
	}
	if sym, ok := symbols[name]; ok {
		w.emit(sym)
		return nil
	}
	// Greek letters and most function names share their LaTeX spelling.
	w.emit(name)
	return nil
}

// call emits fn applied to n translated arguments.
func (p *mathParser) call(w *mathWriter, fn string, n int) error {
	args := make([]string, n)
	for i := range args {
		arg, _, err := p.argument()
		if err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
		args[i] = arg
	}
	w.emit(fn + "(" + strings.Join(args, ", ") + ")")
	return nil
}

func (p *mathParser) sqrt(w *mathWriter) error {
	p.skipSpace()
	if p.eof() || p.src[p.pos] != '[' {
		return p.call(w, "sqrt", 1)
	}
	p.pos++
	var index mathWriter
	if err := p.sequence(&index, ']'); err != nil {
		return err
	}
	arg, _, err := p.argument()
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	w.emit("root(" + strings.TrimSpace(index.String()) + ", " + arg + ")")
	return nil
}

// delimiter emits the delimiter following \left or \right. Typst scales
// matched delimiters on its own.
func (p *mathParser) delimiter(w *mathWriter) error {
	p.skipSpace()
	if p.eof() {
		return errMissingArgument
	}
	r := p.src[p.pos]
	switch r {
	case '.':
		p.pos++
		return nil
	case '\\':
		return p.command(w)
	default:
		p.pos++
		w.emit(translateChar(r))
		return nil
	}
}

func (p *mathParser) environment(w *mathWriter, name string) error {
	open, ok := environments[name]
	if !ok {
		return fmt.Errorf("unsupported environment %q", name)
	}

	p.envs = append(p.envs, name)
	var body mathWriter
	if err := p.sequence(&body, 0); err != nil {
		return err
	}
	if !p.ended {
		return fmt.Errorf(`missing \end{%s}`, name)
	}
	p.ended = false
	p.envs = p.envs[:len(p.envs)-1]

	content := strings.TrimSpace(body.String())
	content = strings.TrimSpace(strings.TrimRight(content, ";,\\ "))
	if open == "" {
		w.emit(content)
		return nil
	}
	w.emit(open + separatorRe.ReplaceAllString(content, "$1 ") + ")")
	return nil
}

func (p *mathParser) env() string {
	if len(p.envs) == 0 {
		return ""
	}
	return p.envs[len(p.envs)-1]
}

func (p *mathParser) cellSeparator() string {
	switch env := p.env(); {
	case strings.HasSuffix(env, "matrix"):
		return ","
	case env == "cases":
		return " & "
	default:
		return "&"
	}
}

func (p *mathParser) rowSeparator() string {
	switch env := p.env(); {
	case strings.HasSuffix(env, "matrix"):
		return ";"
	case env == "cases":
		return ","
	default:
		return ` \ `
	}
}

// escapedSymbol translates a backslash followed by a non-letter.
func escapedSymbol(c rune, row string) string {
	switch c {
	case '\\':
		return row
	case ',':
		return " thin "
	case ':', ';', '>':
		return " med "
	case '!':
		return ""
	case ' ':
		return " "
	case '{':
		return `\{`
	case '}':
		return `\}`
	case '|':
		return "||"
	case '%':
		return "%"
	case '&', '#', '$', '_':
		return `\` + string(c)
	default:
		return translateChar(c)
	}
}

// translateChar escapes characters that are special in Typst math.
func translateChar(r rune) string {
	switch r {
	case '/', '#', '"', '$', '@':
		return `\` + string(r)
	case '~', '\n', '\t', '\r':
		return " "
	default:
		return string(r)
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return quoter.Replace(s)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

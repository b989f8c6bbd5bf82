package config

import (
	"fmt"
	"strconv"
	"strings"
)

// scanner walks argv left to right, tracking the keymap definition
// currently open for "-k" to append to. It is reused across every argv
// source (home RC, /etc RC, real CLI args) so a keymap opened by an RC
// file can still receive "-k" bindings added on the command line.
type scanner struct {
	opts    *Options
	current *KeymapDef
}

// ParseArgs scans argv (argv[0] is the program name and is skipped) into
// opts, continuing any keymap definition opts already has open. Returns
// the first parse error encountered.
func ParseArgs(argv []string, opts *Options) error {
	s := &scanner{opts: opts}
	if n := len(opts.Keymaps); n > 0 {
		s.current = &opts.Keymaps[n-1]
	}

	args := argv
	if len(args) > 0 {
		args = args[1:]
	}

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			line, err := parseTarget(arg)
			if err != nil {
				return err
			}
			opts.Targets = append(opts.Targets, line)
			i++
			continue
		}

		if arg == "--ai-provider" {
			val, consumed, err := takeValue(args, i, "--ai-provider")
			if err != nil {
				return err
			}
			opts.AIProvider = val
			i += consumed
			continue
		}

		flag := arg[1:]
		if flag == "" {
			return fmt.Errorf("config: empty flag")
		}
		letter := flag[0]
		rest := strings.TrimSpace(flag[1:])

		needsValue := strings.ContainsRune("acKklMmnSstxyz", rune(letter))
		var val string
		consumed := 1
		if needsValue {
			if rest != "" {
				val = rest
			} else {
				v, n, err := takeValue(args, i, string(letter))
				if err != nil {
					return err
				}
				val = v
				consumed = n
			}
		}

		if err := s.apply(letter, val); err != nil {
			return err
		}
		i += consumed
	}
	return nil
}

// takeValue consumes the argument following args[i] as a flag's value.
func takeValue(args []string, i int, name string) (string, int, error) {
	if i+1 >= len(args) {
		return "", 0, fmt.Errorf("config: -%s requires a value", name)
	}
	return args[i+1], 2, nil
}

func parseTarget(arg string) (Target, error) {
	path, lineStr, found := strings.Cut(arg, ":")
	if !found {
		return Target{Path: arg}, nil
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		// Not every colon marks a line number (Windows drive letters,
		// paths that just contain one); treat the whole thing as a path.
		return Target{Path: arg}, nil
	}
	return Target{Path: path, Line: line}, nil
}

func (s *scanner) apply(letter byte, val string) error {
	switch letter {
	case 'h':
		s.opts.Help = true
	case 'v':
		s.opts.Version = true
	case 'a':
		b, err := parseBool01(val)
		if err != nil {
			return fmt.Errorf("config: -a: %w", err)
		}
		s.opts.TabToSpace = b
	case 'b':
		s.opts.HighlightBracket = true
	case 'c':
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("config: -c: %w", err)
		}
		s.opts.ColorColumn = n
	case 'K':
		def, err := parseKeymapDef(val)
		if err != nil {
			return err
		}
		s.opts.Keymaps = append(s.opts.Keymaps, def)
		s.current = &s.opts.Keymaps[len(s.opts.Keymaps)-1]
	case 'k':
		if s.current == nil {
			return fmt.Errorf("config: -k %q: no keymap definition open (need -K first)", val)
		}
		b, err := parseKeyBinding(val)
		if err != nil {
			return err
		}
		s.current.Bindings = append(s.current.Bindings, b)
	case 'l':
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 || n > 2 {
			return fmt.Errorf("config: -l: invalid linenum type %q", val)
		}
		// 0, 1, 2 select absolute, relative, both; LineNumNone is only
		// the default when -l is absent.
		s.opts.LineNum = LineNumType(n + 1)
	case 'M':
		m, err := parseMacroDef(val)
		if err != nil {
			return err
		}
		s.opts.Macros = append(s.opts.Macros, m)
	case 'm':
		s.opts.MacroToggle = val
	case 'n':
		s.opts.InitialKeymap = val
	case 'S':
		def, err := parseSyntaxDef(val)
		if err != nil {
			return err
		}
		s.opts.SyntaxDefs = append(s.opts.SyntaxDefs, def)
	case 's':
		rule, err := parseSyntaxRule(val)
		if err != nil {
			return err
		}
		s.opts.SyntaxRules = append(s.opts.SyntaxRules, rule)
	case 't':
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("config: -t: %w", err)
		}
		s.opts.TabWidth = n
	case 'x':
		s.opts.Script = val
	case 'y':
		s.opts.SyntaxOver = val
	case 'z':
		b, err := parseBool01(val)
		if err != nil {
			return fmt.Errorf("config: -z: %w", err)
		}
		s.opts.TrimPaste = b
	default:
		return fmt.Errorf("config: unknown flag -%c", letter)
	}
	return nil
}

func parseBool01(val string) (bool, error) {
	switch val {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("want 0 or 1, got %q", val)
	}
}

func parseKeymapDef(val string) (KeymapDef, error) {
	parts := strings.SplitN(val, ",", 3)
	if len(parts) < 1 || parts[0] == "" {
		return KeymapDef{}, fmt.Errorf("config: -K %q: want name,default_cmd,allow_fallthru", val)
	}
	def := KeymapDef{Name: parts[0]}
	if len(parts) > 1 {
		def.DefaultCmd = parts[1]
	}
	if len(parts) > 2 {
		b, err := parseBool01(parts[2])
		if err != nil {
			return KeymapDef{}, fmt.Errorf("config: -K %q: allow_fallthru: %w", val, err)
		}
		def.AllowFallthru = b
	}
	return def, nil
}

func parseKeyBinding(val string) (KeyBinding, error) {
	parts := strings.SplitN(val, ",", 3)
	if len(parts) < 2 {
		return KeyBinding{}, fmt.Errorf("config: -k %q: want cmd,key[,param]", val)
	}
	b := KeyBinding{Command: parts[0], Key: parts[1]}
	if len(parts) > 2 {
		b.Param = parts[2]
	}
	return b, nil
}

func parseMacroDef(val string) (MacroDef, error) {
	parts := strings.Split(val, ",")
	if len(parts) < 2 {
		return MacroDef{}, fmt.Errorf("config: -M %q: want name,key1,...,keyN", val)
	}
	return MacroDef{Name: parts[0], Keys: parts[1:]}, nil
}

func parseSyntaxDef(val string) (SyntaxDef, error) {
	parts := strings.SplitN(val, ",", 2)
	if len(parts) != 2 {
		return SyntaxDef{}, fmt.Errorf("config: -S %q: want name,path_pattern", val)
	}
	return SyntaxDef{Name: parts[0], PathPattern: parts[1]}, nil
}

// parseSyntaxRule accepts either "start,end,fg,bg" or "regex,fg,bg"; the
// two are disambiguated purely by field count, matching the grammar in §6.
func parseSyntaxRule(val string) (SyntaxRule, error) {
	parts := strings.Split(val, ",")
	switch len(parts) {
	case 4:
		return SyntaxRule{Start: parts[0], End: parts[1], Fg: parts[2], Bg: parts[3]}, nil
	case 3:
		return SyntaxRule{Regex: parts[0], Fg: parts[1], Bg: parts[2]}, nil
	default:
		return SyntaxRule{}, fmt.Errorf("config: -s %q: want start,end,fg,bg or regex,fg,bg", val)
	}
}

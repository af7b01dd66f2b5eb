package command

import (
	"regexp"
	"strconv"
	"strings"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// ParseArgs binds tokens to a descriptor's positional schema. A missing or
// malformed required argument yields *MissingArgumentError; optional
// arguments fall back to their default or stay absent. Surplus tokens are
// ignored.
func ParseArgs(d *Descriptor, tokens []string) (Args, error) {
	args := make(Args, len(d.Args))
	for i, spec := range d.Args {
		if spec.Kind == ArgRest {
			rest := strings.Join(tokens[i:], " ")
			if rest == "" {
				if spec.Default != "" {
					rest = spec.Default
				} else if !spec.Optional {
					return args, &MissingArgumentError{Command: d.Name, Arg: spec.Name}
				} else {
					break
				}
			}
			args[spec.Name] = rest
			break
		}

		raw := ""
		if i < len(tokens) {
			raw = tokens[i]
		} else if spec.Default != "" {
			raw = spec.Default
		} else if spec.Optional {
			continue
		} else {
			return args, &MissingArgumentError{Command: d.Name, Arg: spec.Name}
		}

		val, ok := parseToken(spec.Kind, raw)
		if !ok {
			return args, &MissingArgumentError{Command: d.Name, Arg: spec.Name}
		}
		args[spec.Name] = val
	}
	return args, nil
}

func parseToken(kind ArgKind, raw string) (any, bool) {
	switch kind {
	case ArgString:
		return raw, true
	case ArgInt:
		n, err := strconv.Atoi(raw)
		return n, err == nil
	case ArgFloat:
		f, err := strconv.ParseFloat(raw, 64)
		return f, err == nil
	case ArgMention:
		if m := mentionPattern.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
		if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return raw, true
		}
		return nil, false
	default:
		return nil, false
	}
}

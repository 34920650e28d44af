package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeConverter parses time.Time values by trying each layout in order and
// formats them with the first layout.
//
//	reg.MustRegister(reflect.TypeOf(time.Time{}),
//	    params.TimeConverter(time.DateOnly, "02/01/2006"),
//	    params.WithAnnotations(params.Annotation{Key: "format", Value: "date"}),
//	)
func TimeConverter(layouts ...string) Func[time.Time] {
	return Func[time.Time]{
		Parse: func(s string) (time.Time, error) {
			if len(layouts) == 0 {
				return time.Time{}, fmt.Errorf("params: no time layouts provided")
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return time.Time{}, ErrEmptyValue
			}
			var lastErr error
			for _, layout := range layouts {
				t, err := time.Parse(layout, s)
				if err == nil {
					return t, nil
				}
				lastErr = err
			}
			return time.Time{}, fmt.Errorf("params: unable to parse time %q (tried %d layouts): %w", s, len(layouts), lastErr)
		},
		Format: func(t time.Time) (string, error) {
			if len(layouts) == 0 {
				return "", fmt.Errorf("params: no time layouts provided")
			}
			return t.Format(layouts[0]), nil
		},
	}
}

// DurationConverter parses durations, accepting case-insensitive aliases
// before falling back to time.ParseDuration. Formatting prefers an alias that
// maps to the exact duration.
func DurationConverter(aliases map[string]time.Duration) Func[time.Duration] {
	lookup := make(map[string]time.Duration, len(aliases))
	names := make([]string, 0, len(aliases))
	for alias, d := range aliases {
		key := strings.ToLower(strings.TrimSpace(alias))
		if key == "" {
			continue
		}
		lookup[key] = d
		names = append(names, key)
	}
	sort.Strings(names)

	return Func[time.Duration]{
		Parse: func(s string) (time.Duration, error) {
			s = strings.TrimSpace(s)
			if s == "" {
				return 0, ErrEmptyValue
			}
			if d, ok := lookup[strings.ToLower(s)]; ok {
				return d, nil
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				if len(names) > 0 {
					return 0, fmt.Errorf("params: invalid duration %q: not a duration or alias (aliases: %s)", s, strings.Join(names, ", "))
				}
				return 0, fmt.Errorf("params: invalid duration: %w", err)
			}
			return d, nil
		},
		Format: func(d time.Duration) (string, error) {
			for _, name := range names {
				if lookup[name] == d {
					return name, nil
				}
			}
			return d.String(), nil
		},
	}
}

// EnumConverter accepts only the allowed values, matched case-insensitively,
// and returns the canonical spelling.
func EnumConverter[T ~string](allowed ...T) Func[T] {
	canonical := make(map[string]T, len(allowed))
	for _, v := range allowed {
		canonical[strings.ToLower(string(v))] = v
	}

	return Func[T]{
		Parse: func(s string) (T, error) {
			if len(allowed) == 0 {
				return "", fmt.Errorf("params: no allowed values provided")
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return "", ErrEmptyValue
			}
			if v, ok := canonical[strings.ToLower(s)]; ok {
				return v, nil
			}
			names := make([]string, len(allowed))
			for i, v := range allowed {
				names[i] = string(v)
			}
			return "", fmt.Errorf("params: invalid value %q: must be one of: %s", s, strings.Join(names, ", "))
		},
		Format: func(v T) (string, error) {
			if _, ok := canonical[strings.ToLower(string(v))]; !ok {
				return "", fmt.Errorf("params: value %q is not an allowed value", string(v))
			}
			return string(v), nil
		},
	}
}

// BoolConverter parses booleans from custom truthy and falsy spellings
// (case-insensitive). An empty string parses as false. Formatting uses the
// first spelling of each list, or strconv when the list is empty.
func BoolConverter(truthy, falsy []string) Func[bool] {
	truthySet := make(map[string]struct{}, len(truthy))
	for _, v := range truthy {
		truthySet[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	falsySet := make(map[string]struct{}, len(falsy))
	for _, v := range falsy {
		falsySet[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	return Func[bool]{
		Parse: func(s string) (bool, error) {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				return false, nil
			}
			if _, ok := truthySet[s]; ok {
				return true, nil
			}
			if _, ok := falsySet[s]; ok {
				return false, nil
			}
			return false, fmt.Errorf("params: invalid boolean value %q", s)
		},
		Format: func(b bool) (string, error) {
			if b && len(truthy) > 0 {
				return truthy[0], nil
			}
			if !b && len(falsy) > 0 {
				return falsy[0], nil
			}
			return strconv.FormatBool(b), nil
		},
	}
}

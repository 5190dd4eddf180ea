package charset

// Pools is the resolved form of a class selection for one generation run.
type Pools struct {
	// IDs lists the enabled classes in declaration order.
	IDs []Class
	// Classes holds each enabled class's symbols, parallel to IDs.
	Classes [][]rune
	// Fill is the concatenation of Classes.
	Fill []rune
}

// Resolve builds the pools for the enabled classes. Selection order and
// duplicates are ignored; the result always follows declaration order.
func Resolve(enabled []Class) (Pools, error) {
	if len(enabled) == 0 {
		return Pools{}, &ConfigurationError{
			Reason: "at least one character class must be enabled",
			Err:    ErrNoClasses,
		}
	}

	selected := make([]bool, len(definitions))
	for _, c := range enabled {
		i, ok := registry[c]
		if !ok {
			return Pools{}, &ConfigurationError{
				Reason: "unknown character class " + string(c),
				Err:    ErrUnknownClass,
			}
		}
		selected[i] = true
	}

	var p Pools
	for i, d := range definitions {
		if !selected[i] {
			continue
		}
		symbols := []rune(d.Symbols)
		p.IDs = append(p.IDs, d.ID)
		p.Classes = append(p.Classes, symbols)
		p.Fill = append(p.Fill, symbols...)
	}
	return p, nil
}

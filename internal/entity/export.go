package entity

import "github.com/agentic-research/doxmd/api"

// Export resolves every declared field of v, recursing into child views.
// Absent scalars map to nil, absent single children to nil, and repeated
// children to a (possibly empty) []any. The result only holds maps, slices,
// strings and nil so it can be handed to any JSON encoder.
func Export(v *View) (map[string]any, error) {
	out := make(map[string]any, len(v.kind.Fields()))
	for _, f := range v.kind.Fields() {
		val, err := v.Get(f.Identifier)
		if err != nil {
			return nil, err
		}
		switch x := val.(type) {
		case *View:
			if !x.Present() {
				out[f.Identifier] = nil
				continue
			}
			m, err := Export(x)
			if err != nil {
				return nil, err
			}
			out[f.Identifier] = m
		case []*View:
			list := make([]any, 0, len(x))
			for _, child := range x {
				m, err := Export(child)
				if err != nil {
					return nil, err
				}
				list = append(list, m)
			}
			out[f.Identifier] = list
		default:
			out[f.Identifier] = val
		}
	}
	return out, nil
}

// ExportStruct is Export plus the derived typedef flag.
func ExportStruct(s *Struct) (map[string]any, error) {
	m, err := Export(s.View)
	if err != nil {
		return nil, err
	}
	m["typedef"] = s.IsTypedef()
	return m, nil
}

// Describe returns the descriptor table of every catalog kind, keyed by kind name.
func Describe() map[string][]api.Descriptor {
	out := make(map[string][]api.Descriptor)
	for _, k := range Kinds() {
		for _, f := range k.Fields() {
			out[k.Name()] = append(out[k.Name()], f.Descriptor)
		}
	}
	return out
}

package main

import (
	"attrmap/internal/attrmap"
	"attrmap/internal/definition"
	"attrmap/internal/record"
)

// builtinFuncs are the custom readers a definition can name with read_fn.
func builtinFuncs() definition.Funcs {
	return definition.Funcs{
		Readers: map[string]attrmap.ReadFunc{
			"record_id": func(rec record.Record) (any, error) {
				if identified, ok := rec.(interface{ ID() string }); ok {
					return identified.ID(), nil
				}

				return nil, nil
			},
			"type_name": func(rec record.Record) (any, error) {
				return rec.Type().Name(), nil
			},
		},
	}
}

func toRecords(recs []*record.Instance) []record.Record {
	out := make([]record.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}

	return out
}

// Package attrmap exposes record fields and relations through named
// attribute maps.
//
// A map is declared per record type and name ("default" unless stated). It
// lists the fields and relations it exposes, their public names, access
// modes and optional groups:
//
//	set := attrmap.NewSet(models)
//	_, err := set.Define("Post", "default", attrmap.MapOptions{}, func(m *attrmap.Map) error {
//		if err := m.DeclareField("title", nil); err != nil {
//			return err
//		}
//		if err := m.DeclareField("created_at", attrmap.Options{"access_mode": "ro"}); err != nil {
//			return err
//		}
//		return m.DeclareRelation("comments", attrmap.Options{"optional_group": true}, nil)
//	})
//
// Maps resolve on first use. Resolution merges the same-name map of the base
// type in front of the declared entries and fixes the nested map of every
// relation: the target type's own map, an explicit nested map merged onto
// it, or an explicit map replacing it. Cycles between types are cut short by
// a visiting set; merge overrides pointing at each other fail with
// *CircularMergeError.
//
// Resolved maps project records into ordered *Hash values (Project) and
// translate external input into internal names for bulk assignment
// (TranslateForWrite, Apply). Schema describes either side.
//
// Declarations are not safe for concurrent use. Declare everything, call
// Set.ResolveAll and Set.Seal, then share the set.
package attrmap

// Package definition provides the YAML definition file format: record model
// declarations and attribute map declarations, with parsing, validation and
// building into an attrmap.Set.
//
// # Schema Overview
//
// A definition file has the following structure:
//
//	version: "1"
//	models:
//	  - name: Post
//	    columns: {id: integer, title: string, created_at: datetime}
//	    relations:
//	      comments: {target: Comment, many: true, nested_attributes: true}
//	      author: Author                 # shorthand for the target
//	  - name: Image
//	    base: Attachment
//	    discriminator: image
//	maps:
//	  - type: Post                       # name defaults to "default"
//	    fields:
//	      title:                         # null means no options
//	      created_at: ro                 # scalar means access_mode
//	    relations:
//	      comments: {optional_group: true}
//	  - type: Post
//	    name: admin
//	    fields: [id, title]              # list form
//	    relations:
//	      comments:
//	        override_mode: replace
//	        fields: [body]               # nested map
//
// # Pipeline
//
// Load runs the three stages in order and stops at the first stage that
// reports errors:
//  1. Validate checks the file against the record catalog: types, relation
//     names, option keys and option values. Unknown keys get suggestions.
//  2. Build declares every map into the set, binding read_fn and write_fn
//     names registered in Funcs.
//  3. The set resolves every map, reporting merge failures and circular
//     merges.
//
// All stages report diagnostic.Diagnostics; warnings never stop the pipeline.
package definition

// Package analyze derives record models from annotated Go structs.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build an
// in-memory graph of structs and their fields, then reads struct tags to
// produce a record.Models catalog:
//
//	type Post struct {
//		ID       int64     `attr:"id"`
//		Title    string    `attr:"title"`
//		Comments []Comment `rel:"comments,nested"`
//		Author   *Author   `rel:"author"`
//	}
//
//	type Image struct {
//		Attachment `discriminator:"image"` // base model
//		Width      int `attr:"width"`
//	}
//
// An empty tag name means the snake_case field name. A field tagged "-" is
// skipped.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/external)
//   - FieldInfo: describes field name, type, tags, and embedding
package analyze

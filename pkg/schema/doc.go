// Package schema defines the declarative form description consumed by the
// engine: a Schema holds ordered Sections, each Section holds ordered Fields,
// and every Field is one of a closed set of FieldType variants. Schemas are
// decoded from JSON or YAML and checked once by New; after that they are
// treated as read-only.
//
// Choice options accept either a bare string or a {value,label} object and
// are normalised to ChoiceOption on decode. Visibility rules name the field
// they depend on, an Operator (equals when omitted) and a target literal.
package schema

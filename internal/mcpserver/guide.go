package mcpserver

// FieldTableGuide explains how to read the rows returned by schema_fields.
const FieldTableGuide = `# Reading Open SSPM field tables

The schema_fields tool flattens a metaschema into rows. Each row has:

| column | meaning |
|---|---|
| field | dotted path from the document root; ` + "`[]`" + ` marks an array item |
| type | ` + "`const`" + `, a JSON type, ` + "`a | b`" + ` for type lists, ` + "`array<T>`" + ` or ` + "`unknown`" + ` |
| required | listed in the parent's ` + "`required`" + ` array |
| description | the schema description; array items without one read "Array item." |
| details | constraints joined by " · " (const, enum, default, format, pattern, min, minLength, uniqueItems, additionalProperties) |
| depth | nesting level; array item properties sit two levels below the array |

A field typed ` + "`unknown`" + ` is usually a ` + "`$ref`" + ` that could not be expanded, either
because it points outside the schema or because it refers back to one of its
own ancestors.

## Kinds

` + "`ruleset`" + `, ` + "`dataset_contract`" + `, ` + "`connector_manifest`" + `, ` + "`profile`" + `, ` + "`dictionary`" + `.
Tools accept either these short names or the wire names (` + "`opensspm.ruleset`" + `).

Dataset contracts are addressed as ` + "`key@version`" + `, e.g. ` + "`okta.users@1`" + `.
`

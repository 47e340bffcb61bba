// Package todo holds the task entity, the task store aggregate and the
// operations the session loop runs against it.
//
// The durable format (tasks.json) follows the schema embedded as
// tasks.schema.json:
//
//	{
//	  "saved": [
//	    {
//	      "id": "0191f6a2-7c3e-7b1a-9d2f-3c4b5a6e7f80",
//	      "title": "Buy milk",
//	      "description": "",
//	      "completed": false,
//	      "status": "saved",
//	      "created_at": "2026-01-01T00:00:00Z",
//	      "updated_at": "2026-01-01T00:00:00Z"
//	    }
//	  ],
//	  "drafts": []
//	}
//
// # Collections
//
// A task lives in exactly one collection:
//   - "saved": the main list; tasks can be completed and uncompleted
//   - "draft": not yet committed; promoted to saved with Promote
//
// # Validation
//
// Decode validates in three passes and reports any failure as a
// *CorruptionError:
//
// 1. JSON syntax
// 2. JSON Schema draft-2020-12 (types, required fields, enums,
// additionalProperties, date-time formats)
// 3. Store invariants (unique ids across collections, non-blank titles,
// status matches collection, updated_at >= created_at)
//
// # File Format
//
// Encode writes 2-space indentation, a trailing newline and [] for
// empty collections.
package todo

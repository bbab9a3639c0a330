package extractor

import (
	"fmt"
	"strings"
)

// Field describes one typed field of a record shape. Type is a JSON primitive
// name: "string", "number" or "boolean".
type Field struct {
	Name        string
	Type        string
	Description string
}

// Schema is a named record shape. Description carries the natural-language
// extraction instruction for the generation model; Fields drive both the
// response shape in the prompt and the output validation.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

func buildExtractionPrompt(text string, schema Schema) string {
	var fields strings.Builder
	for i, f := range schema.Fields {
		if i > 0 {
			fields.WriteString(",\n")
		}
		fields.WriteString(fmt.Sprintf("            %q: \"<%s> %s\"", f.Name, f.Type, f.Description))
	}

	return fmt.Sprintf(`
        %s
        Return the response STRICTLY as a JSON object with:
        {
        "records": [
            {
%s
            }
        ]
        }
        Provided text:
        %s`, schema.Description, fields.String(), text)
}

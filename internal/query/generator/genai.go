package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// schemaPrompt pins the model to the real tables so it can't hallucinate
// columns. The schema is fixed, so a constant beats introspection.
const schemaPrompt = `You translate questions about warehouse inventory into a single PostgreSQL SELECT statement.

Schema:
  locations(id, warehouse, code, kind, active) -- kind: rack|staging|receiving|kitting|shipped
  items_master(id, item_code, description, uom, kit, pack_quantity, active)
  current_inventory(id, warehouse, location_id, item_code, quantity, updated_at)
  current_scan_location(scan_code, warehouse, location_id, item_code, placed_at, placed_by)
  scan_verifications(id, scan_code, warehouse, location_id, item_code, status, note, scanned_by, scanned_at)
  transactions(id, warehouse, item_code, location_id, transaction_type, quantity_change, quantity_before, quantity_after, scan_code, reference_type, reference_id, note, created_by, created_at)
  pulltags(id, warehouse, pulltag_number, line_no, item_code, quantity_ordered, quantity_received, status, job_number, created_at, updated_at)
  users(id, username, display_name, role, active)

Rules:
- Answer with the SQL statement only, no prose, no markdown.
- One SELECT (WITH is fine). Never modify data.
- Join location_id to locations.id and item_code to items_master.item_code when names are wanted.

Question: `

type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, question string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(schemaPrompt+question, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	sql := ExtractSQL(result.Text())
	if sql == "" {
		return "", fmt.Errorf("model returned no SQL")
	}
	return sql, nil
}

// ExtractSQL strips markdown fences the model tends to wrap code in despite
// the prompt.
func ExtractSQL(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

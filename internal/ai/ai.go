package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AIService holds the Gemini client and a database handle used for
// catalog lookups. The assistant answers shopper questions ("do you have
// anchor lights under $50?") grounded on live product data.
type AIService struct {
	Client *genai.Client
	DB     *sql.DB
}

// NewAIService initializes the Gemini client.
func NewAIService(apiKey string, db *sql.DB) (*AIService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AIService{Client: client, DB: db}, nil
}

// GenerateResponse answers a shopper's question. The model may call the
// search_products tool, which runs a parameterized catalog query. The
// model never sees raw SQL.
func (s *AIService) GenerateResponse(ctx context.Context, question string) (string, error) {
	modelName := "gemini-1.5-flash"
	model := s.Client.GenerativeModel(modelName)

	searchTool := &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "search_products",
				Description: "Searches the store catalog by name or description and returns matching products with price and stock.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "Search terms, e.g. 'anchor light'.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
	model.Tools = []*genai.Tool{searchTool}

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You are the Harborline store assistant. You help shoppers find
			products, compare prices and check stock. Use search_products to
			look things up. Only discuss products sold in this store. Be
			concise and friendly. Never invent prices or stock levels.
		`)},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}

	// Function-call loop: keep serving tool calls until the model answers
	// with text.
	for {
		if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
			return "Sorry, I don't have an answer for that.", nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return fmt.Sprintf("%v", part), nil
		}

		if funcCall.Name != "search_products" {
			return "", fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, ok := funcCall.Args["query"].(string)
		if !ok {
			return "", fmt.Errorf("invalid query argument")
		}
		log.Printf("assistant searching catalog: %q", query)

		result, searchErr := s.searchProducts(ctx, query)
		if searchErr != nil {
			result = fmt.Sprintf("search failed: %v", searchErr)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     "search_products",
			Response: map[string]interface{}{"result": result},
		})
		if err != nil {
			return "", fmt.Errorf("tool response error: %w", err)
		}
	}
}

// searchProducts runs a bounded, parameterized catalog search and returns
// the matches as JSON for the model to read.
func (s *AIService) searchProducts(ctx context.Context, query string) (string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.name, p.slug, p.price, p.stock_quantity, COALESCE(c.name, '')
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.active = 1 AND (p.name LIKE ? OR p.description LIKE ?)
		ORDER BY p.name ASC
		LIMIT 10`,
		"%"+query+"%", "%"+query+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	type match struct {
		Name     string  `json:"name"`
		Slug     string  `json:"slug"`
		Price    float64 `json:"price"`
		Stock    int     `json:"stock"`
		Category string  `json:"category,omitempty"`
	}

	var matches []match
	for rows.Next() {
		var m match
		if err := rows.Scan(&m.Name, &m.Slug, &m.Price, &m.Stock, &m.Category); err != nil {
			return "", err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package match

import (
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"total", "total", 0},
		{"", "page", 4},
		{"page", "", 4},

		{"page", "pages", 1},
		{"perpage", "perpag", 1},
		{"price", "prize", 1},

		{"quantity", "quanity", 1},
		{"clientid", "orderid", 5},
		{"createdat", "updatedat", 3},

		// Case-sensitive
		{"Total", "total", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1.0},
		{"total", "total", 1.0},
		{"total", "", 0.0},
		{"page", "pages", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := LevenshteinNormalized(tt.a, tt.b)
			if diff := result - tt.expected; diff < -0.001 || diff > 0.001 {
				t.Errorf("LevenshteinNormalized(%q, %q) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		minScore float64
	}{
		{"perPage", "per_page", 1.0},
		{"OrderID", "order_id", 1.0},
		{"created_at", "createdAt", 1.0},
		{"product_id", "productIds", 0.8},
		{"price", "client_id", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := NormalizedLevenshteinScore(tt.a, tt.b)
			if result < tt.minScore {
				t.Errorf("NormalizedLevenshteinScore(%q, %q) = %f, want >= %f",
					tt.a, tt.b, result, tt.minScore)
			}
		})
	}
}

func TestNormalizedLevenshteinScoreWithSuffixStrip(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"order_id", "order", 1.0},
		{"ClientID", "client", 1.0},
		{"created_at", "Created", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := NormalizedLevenshteinScoreWithSuffixStrip(tt.a, tt.b)
			if diff := result - tt.expected; diff < -0.001 || diff > 0.001 {
				t.Errorf("NormalizedLevenshteinScoreWithSuffixStrip(%q, %q) = %f, want %f",
					tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func BenchmarkSuggest(b *testing.B) {
	names := []string{"order_id", "client_id", "total", "products", "created_at"}
	for i := 0; i < b.N; i++ {
		Suggest("clientID", names, DefaultSuggestions)
	}
}

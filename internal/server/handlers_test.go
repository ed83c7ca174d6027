package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
	"github.com/greenlandphil/inventory-wishlist/internal/session"
	"github.com/greenlandphil/inventory-wishlist/internal/wishlist/repo"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]*catalog.Product{
		{
			SKU:   "ER-100",
			Title: "Crystal Ear Stud",
			Tags:  []string{"ear", "crystal"},
			Blocks: catalog.BlockList{
				&catalog.TableBlock{
					Headers: []string{"Length", "Color", "Price"},
					Rows: []catalog.TableRow{
						{Cells: map[string]any{"Length": "8.00mm", "Color": "Clear", "Price": 12.5}},
						{Cells: map[string]any{"Length": "10.00mm", "Color": "Clear", "Price": 13.0}},
					},
				},
			},
		},
		{SKU: "NR-55", Title: "Nose Ring", Tags: []string{"nose"}},
	})
}

func newTestHandler() http.Handler {
	sessions := session.NewManager(
		repo.NewMemoryWishlistRepository(),
		session.NewTokenIssuer("test-secret", time.Hour),
	)
	return New(testCatalog(), sessions).Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	rec := do(t, h, http.MethodPost, "/login", "", map[string]string{"username": "alex"}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	if resp.Token == "" {
		t.Fatalf("expected a session token")
	}
	return resp.Token
}

func TestLogin_BlankUsernameBecomesDemoUser(t *testing.T) {
	h := newTestHandler()
	var resp struct {
		Username string `json:"username"`
	}
	rec := do(t, h, http.MethodPost, "/login", "", map[string]string{"username": "  "}, &resp)
	if rec.Code != http.StatusOK || resp.Username != "Demo User" {
		t.Fatalf("expected Demo User fallback, got %d %+v", rec.Code, resp)
	}
}

func TestListProducts_TagFilter(t *testing.T) {
	h := newTestHandler()

	var resp struct {
		Products []struct {
			SKU string `json:"sku"`
		} `json:"products"`
		Total int `json:"total"`
	}
	do(t, h, http.MethodGet, "/products", "", nil, &resp)
	if len(resp.Products) != 2 || resp.Total != 2 {
		t.Fatalf("expected full gallery, got %+v", resp)
	}

	resp.Products = nil
	do(t, h, http.MethodGet, "/products?tags=ear,crystal", "", nil, &resp)
	if len(resp.Products) != 1 || resp.Products[0].SKU != "ER-100" {
		t.Fatalf("expected tag-filtered gallery, got %+v", resp)
	}
}

func TestGetAxes(t *testing.T) {
	h := newTestHandler()

	var resp struct {
		Axes []catalog.Axis `json:"axes"`
	}
	rec := do(t, h, http.MethodGet, "/products/ER-100/axes", "", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("axes failed: %d", rec.Code)
	}
	if len(resp.Axes) != 2 || resp.Axes[0].Label != "Length" || resp.Axes[1].Label != "Color" {
		t.Fatalf("unexpected axes: %+v", resp.Axes)
	}

	if rec := do(t, h, http.MethodGet, "/products/NOPE/axes", "", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown SKU, got %d", rec.Code)
	}
}

func TestResolvePriceEndpoint(t *testing.T) {
	h := newTestHandler()

	var resp struct {
		PriceInfo catalog.PriceInfo `json:"price_info"`
	}
	do(t, h, http.MethodPost, "/products/ER-100/price", "", map[string]any{
		"selections": map[string]string{"Length": "8.00mm"},
	}, &resp)
	if resp.PriceInfo.Price == nil || *resp.PriceInfo.Price != 12.5 {
		t.Fatalf("expected price 12.5, got %+v", resp.PriceInfo)
	}

	// A combination with no priced row is an empty result, not an error.
	resp.PriceInfo = catalog.PriceInfo{}
	rec := do(t, h, http.MethodPost, "/products/ER-100/price", "", map[string]any{
		"selections": map[string]string{"Length": "99mm"},
	}, &resp)
	if rec.Code != http.StatusOK || !resp.PriceInfo.Empty() {
		t.Fatalf("expected empty price info, got %d %+v", rec.Code, resp.PriceInfo)
	}
}

func TestWishlistFlow(t *testing.T) {
	h := newTestHandler()
	token := login(t, h)

	if rec := do(t, h, http.MethodGet, "/wishlist", "", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	add := map[string]any{
		"sku":        "ER-100",
		"selections": map[string]string{"Length": "8.00mm", "Color": "Clear"},
	}
	var addResp struct {
		Line struct {
			Key      string `json:"key"`
			Quantity int    `json:"quantity"`
		} `json:"line"`
	}
	do(t, h, http.MethodPost, "/wishlist", token, add, &addResp)
	do(t, h, http.MethodPost, "/wishlist", token, add, &addResp)
	if addResp.Line.Quantity != 2 {
		t.Fatalf("expected repeat add to aggregate to quantity 2, got %+v", addResp.Line)
	}

	var listResp struct {
		Lines []struct {
			Key      string `json:"key"`
			Quantity int    `json:"quantity"`
		} `json:"lines"`
		Summary struct {
			Lines         int `json:"lines"`
			TotalQuantity int `json:"total_quantity"`
		} `json:"summary"`
	}
	do(t, h, http.MethodGet, "/wishlist", token, nil, &listResp)
	if len(listResp.Lines) != 1 || listResp.Summary.TotalQuantity != 2 {
		t.Fatalf("unexpected wishlist view: %+v", listResp)
	}

	key := addResp.Line.Key
	do(t, h, http.MethodPost, "/wishlist/"+key+"/decrement", token, nil, &listResp)
	if listResp.Summary.TotalQuantity != 1 {
		t.Fatalf("expected total 1 after decrement, got %+v", listResp.Summary)
	}
	do(t, h, http.MethodPost, "/wishlist/"+key+"/decrement", token, nil, &listResp)
	if listResp.Summary.Lines != 0 {
		t.Fatalf("expected the line deleted at zero, got %+v", listResp.Summary)
	}

	// Decrementing a gone key stays a 200 no-op.
	var adjResp struct {
		Found bool `json:"found"`
	}
	rec := do(t, h, http.MethodPost, "/wishlist/"+key+"/decrement", token, nil, &adjResp)
	if rec.Code != http.StatusOK || adjResp.Found {
		t.Fatalf("expected found=false no-op, got %d %+v", rec.Code, adjResp)
	}
}

func TestWishlistAdd_UnknownProduct(t *testing.T) {
	h := newTestHandler()
	token := login(t, h)
	rec := do(t, h, http.MethodPost, "/wishlist", token, map[string]any{"sku": "NOPE"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}

package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/fastfood/database/dbhelper"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery(t *testing.T) {
	values, err := url.ParseQuery("select=name,price&sort=-price,name&page=2&limit=10&price[gte]=5&tags[in]=spicy,vegan&isAvailable=true")
	require.NoError(t, err)

	q, err := ParseListQuery(values)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, []string{"name", "price"}, q.Select)
	assert.Equal(t, []models.SortField{{Field: "price", Desc: true}, {Field: "name"}}, q.Sort)
	assert.Equal(t, []models.Filter{
		{Field: "isAvailable", Op: models.OpEq, Values: []string{"true"}},
		{Field: "price", Op: models.OpGte, Values: []string{"5"}},
		{Field: "tags", Op: models.OpIn, Values: []string{"spicy", "vegan"}},
	}, q.Filters)
}

func TestParseListQueryDefaults(t *testing.T) {
	q, err := ParseListQuery(url.Values{"page": {"zero"}, "limit": {"-3"}})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPage, q.Page)
	assert.Equal(t, models.DefaultLimit, q.Limit)
	assert.Empty(t, q.Filters)
	assert.Empty(t, q.Sort)
}

func TestParseListQueryBounds(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"within bounds", "3", "50", 3, 50},
		{"limit above max", "1", "1000", 1, models.MaxLimit},
		{"limit beyond int range", "1", "4611686018427387904000", 1, models.MaxLimit},
		{"huge limit", "1", "4611686018427387904", 1, models.MaxLimit},
		{"page above max", "9223372036854775807", "25", models.MaxPage, 25},
		{"page beyond int range", "99999999999999999999", "25", models.MaxPage, 25},
		{"negative beyond int range", "-99999999999999999999", "-99999999999999999999", models.DefaultPage, models.DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseListQuery(url.Values{"page": {tt.page}, "limit": {tt.limit}})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.GreaterOrEqual(t, q.Offset(), 0)
		})
	}
}

func TestParseListQueryRejectsOperators(t *testing.T) {
	for _, raw := range []string{"price[regex]=5", "price[gte=5", "price[][gte]=5"} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = ParseListQuery(values)
		assert.True(t, utils.IsKind(err, utils.KindValidation), raw)
	}
}

func serveListing(t *testing.T, mw func(http.Handler) http.Handler, path, pattern string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.Handle(pattern, mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, ok := AdvancedResultsFrom(r)
		require.True(t, ok)
		utils.RespondJSON(w, http.StatusOK, result)
	})))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdvancedResults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories c WHERE c.is_active = $1")).WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.display_order ASC LIMIT $2 OFFSET $3")).WithArgs(true, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image", "is_active", "display_order", "created_at"}).
			AddRow(id.String(), "Burgers", "Grilled", "no-photo.jpg", true, 1, now))

	rec := serveListing(t, AdvancedResults(db, dbhelper.Categories), "/categories?isActive=true&sort=order&page=2&limit=10&select=name", "/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success    bool              `json:"success"`
		Count      int               `json:"count"`
		Total      int               `json:"total"`
		Pagination models.Pagination `json:"pagination"`
		Data       []map[string]any  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 25, body.Total)
	require.NotNil(t, body.Pagination.Next)
	require.NotNil(t, body.Pagination.Prev)
	assert.Equal(t, 3, body.Pagination.Next.Page)
	assert.Equal(t, 1, body.Pagination.Prev.Page)
	assert.Equal(t, []map[string]any{{"id": id.String(), "name": "Burgers"}}, body.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvancedResultsClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories c")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).WithArgs(models.MaxLimit, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image", "is_active", "display_order", "created_at"}))

	rec := serveListing(t, AdvancedResults(db, dbhelper.Categories), "/categories?limit=4611686018427387904", "/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int              `json:"count"`
		Data  []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
	assert.Empty(t, body.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvancedResultsBadFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, path := range []string{"/categories?order[gte]=many", "/categories?secret=1", "/categories?sort=password"} {
		rec := serveListing(t, AdvancedResults(db, dbhelper.Categories), path, "/categories")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvancedResultsScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mw := AdvancedResults(db, dbhelper.Reviews, ScopeToVar("menuItemId", "menuItem"), Expand("user"))
	rec := serveListing(t, mw, "/menu/not-an-id/reviews", "/menu/{menuItemId}/reviews")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	itemID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews r WHERE r.menu_item_id = $1")).WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = r.user_id WHERE r.menu_item_id = $1")).
		WithArgs(itemID, models.DefaultLimit, 0).
		WillReturnRows(sqlmock.NewRows(nil))

	rec = serveListing(t, mw, "/menu/"+itemID.String()+"/reviews", "/menu/{menuItemId}/reviews")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

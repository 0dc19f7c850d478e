package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/fastfood/database/dbhelper"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

var (
	reservedParams = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}
	operatorParam  = regexp.MustCompile(`^(\w+)\[(\w+)\]$`)
)

// ParseListQuery turns listing parameters into a ListQuery. Filters are
// returned in a stable order.
func ParseListQuery(values url.Values) (models.ListQuery, error) {
	q := models.ListQuery{
		Page:  boundedInt(values.Get("page"), models.DefaultPage, models.MaxPage),
		Limit: boundedInt(values.Get("limit"), models.DefaultLimit, models.MaxLimit),
	}

	if sel := values.Get("select"); sel != "" {
		q.Select = splitList(sel)
	}
	for _, key := range splitList(values.Get("sort")) {
		if strings.HasPrefix(key, "-") {
			q.Sort = append(q.Sort, models.SortField{Field: key[1:], Desc: true})
		} else {
			q.Sort = append(q.Sort, models.SortField{Field: key})
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !reservedParams[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var verrs utils.ValidationErrors
	for _, key := range keys {
		field, op := key, models.OpEq
		if m := operatorParam.FindStringSubmatch(key); m != nil {
			field, op = m[1], models.FilterOp(m[2])
			if !op.IsValid() {
				verrs.Add("Invalid filter operator %s", m[2])
				continue
			}
		} else if strings.ContainsAny(key, "[]") {
			verrs.Add("Invalid filter %s", key)
			continue
		}
		for _, raw := range values[key] {
			vals := []string{raw}
			if op == models.OpIn {
				vals = splitList(raw)
			}
			q.Filters = append(q.Filters, models.Filter{Field: field, Op: op, Values: vals})
		}
	}
	return q, verrs.Err()
}

// boundedInt parses a positive int, falling back to def when raw is not one
// and clamping to ceiling. Values too large for an int are clamped as well.
func boundedInt(raw string, def, ceiling int) int {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return ceiling
	}
	if err != nil || n < 1 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type resultsOptions struct {
	expand []string
	scopes []scope
}

type scope struct {
	routeVar string
	field    string
}

type ResultsOption func(*resultsOptions)

// Expand joins the named relations into every row.
func Expand(names ...string) ResultsOption {
	return func(o *resultsOptions) { o.expand = append(o.expand, names...) }
}

// ScopeToVar restricts the listing to rows whose field equals the route variable.
func ScopeToVar(routeVar, field string) ResultsOption {
	return func(o *resultsOptions) { o.scopes = append(o.scopes, scope{routeVar, field}) }
}

// AdvancedResults runs the listing query for c and stores the result on the
// request context. It does not write a response on success.
func AdvancedResults(db dbhelper.SQLExecutor, c *dbhelper.Collection, opts ...ResultsOption) func(http.Handler) http.Handler {
	var o resultsOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q, err := ParseListQuery(r.URL.Query())
			if err != nil {
				utils.RespondError(w, err)
				return
			}
			vars := mux.Vars(r)
			for _, s := range o.scopes {
				if _, err := uuid.Parse(vars[s.routeVar]); err != nil {
					utils.RespondError(w, utils.ResourceNotFound())
					return
				}
				q.Filters = append(q.Filters, models.Filter{Field: s.field, Op: models.OpEq, Values: []string{vars[s.routeVar]}})
			}

			items, total, err := c.Find(r.Context(), db, q, o.expand)
			if err != nil {
				utils.RespondError(w, err)
				return
			}

			data, err := project(items, q.Select)
			if err != nil {
				utils.RespondError(w, err)
				return
			}

			result := &models.ListResult{
				Success:    true,
				Count:      len(items),
				Total:      total,
				Pagination: models.NewPagination(q.Page, q.Limit, total),
				Data:       data,
			}
			ctx := context.WithValue(r.Context(), resultsContextKey, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdvancedResultsFrom(r *http.Request) (*models.ListResult, bool) {
	result, ok := r.Context().Value(resultsContextKey).(*models.ListResult)
	return result, ok
}

// project keeps only the selected attributes of each item; id is always kept.
func project(items []any, fields []string) (any, error) {
	if len(fields) == 0 {
		return items, nil
	}
	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}

	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var all map[string]json.RawMessage
		if err := json.Unmarshal(raw, &all); err != nil {
			return nil, err
		}
		picked := make(map[string]json.RawMessage, len(keep))
		for k, v := range all {
			if keep[k] {
				picked[k] = v
			}
		}
		out = append(out, picked)
	}
	return out, nil
}

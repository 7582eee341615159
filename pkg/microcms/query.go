package microcms

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names understood by the content API.
const (
	QueryDraftKey         = "draftKey"
	QueryLimit            = "limit"
	QueryOffset           = "offset"
	QueryOrders           = "orders"
	QueryQ                = "q"
	QueryFields           = "fields"
	QueryIDs              = "ids"
	QueryFilters          = "filters"
	QueryDepth            = "depth"
	QueryRichEditorFormat = "richEditorFormat"
	QueryStatus           = "status"
)

// Queries describes the query string of a content API call. Zero values are
// omitted. Documented parameters are encoded first, in declaration order,
// followed by extra parameters in the order they were set.
type Queries struct {
	DraftKey         string
	Limit            int
	Offset           int
	Orders           string
	Q                string
	Fields           []string
	IDs              []string
	Filters          string
	Depth            int
	RichEditorFormat RichEditorFormat

	extra []queryParam
}

type queryParam struct {
	key   string
	value interface{}
}

type queryPair struct {
	key   string
	value string
}

// NewQueries creates empty query parameters.
func NewQueries() *Queries {
	return &Queries{}
}

// WithDraftKey sets the draft key used to read unpublished content.
func (q *Queries) WithDraftKey(draftKey string) *Queries {
	q.DraftKey = draftKey

	return q
}

// WithLimit sets the page size.
func (q *Queries) WithLimit(limit int) *Queries {
	q.Limit = limit

	return q
}

// WithOffset sets the page offset.
func (q *Queries) WithOffset(offset int) *Queries {
	q.Offset = offset

	return q
}

// WithOrders sets the sort expression, e.g. "-publishedAt".
func (q *Queries) WithOrders(orders string) *Queries {
	q.Orders = orders

	return q
}

// WithQ sets the full text search keyword.
func (q *Queries) WithQ(keyword string) *Queries {
	q.Q = keyword

	return q
}

// WithFields appends to the returned field selection.
func (q *Queries) WithFields(fields ...string) *Queries {
	q.Fields = append(q.Fields, fields...)

	return q
}

// WithIDs appends to the content ID selection.
func (q *Queries) WithIDs(ids ...string) *Queries {
	q.IDs = append(q.IDs, ids...)

	return q
}

// WithFilters sets the filters expression. See FilterBuilder.
func (q *Queries) WithFilters(filters string) *Queries {
	q.Filters = filters

	return q
}

// WithDepth sets the reference expansion depth.
func (q *Queries) WithDepth(depth int) *Queries {
	q.Depth = depth

	return q
}

// WithRichEditorFormat sets how rich editor fields are returned.
func (q *Queries) WithRichEditorFormat(format RichEditorFormat) *Queries {
	q.RichEditorFormat = format

	return q
}

// Set adds or replaces an extra parameter. The value may be a string, number,
// bool, slice (comma-joined), or map with string keys (bracket notation).
// A replaced parameter keeps its original position.
func (q *Queries) Set(key string, value interface{}) *Queries {
	for i := range q.extra {
		if q.extra[i].key == key {
			q.extra[i].value = value

			return q
		}
	}

	q.extra = append(q.extra, queryParam{key: key, value: value})

	return q
}

// Get returns an extra parameter set with Set.
func (q *Queries) Get(key string) (interface{}, bool) {
	for _, param := range q.extra {
		if param.key == key {
			return param.value, true
		}
	}

	return nil, false
}

// Clone returns a deep copy safe to modify independently.
func (q *Queries) Clone() *Queries {
	if q == nil {
		return NewQueries()
	}

	clone := *q
	clone.Fields = append([]string(nil), q.Fields...)
	clone.IDs = append([]string(nil), q.IDs...)
	clone.extra = append([]queryParam(nil), q.extra...)

	return &clone
}

// IsEmpty reports whether encoding would produce an empty string.
func (q *Queries) IsEmpty() bool {
	return len(q.pairs()) == 0
}

// ToValues returns the parameters as url.Values.
func (q *Queries) ToValues() url.Values {
	values := url.Values{}
	for _, pair := range q.pairs() {
		values.Add(pair.key, pair.value)
	}

	return values
}

// Encode returns the URL-escaped query string without a leading "?".
// Unlike url.Values.Encode the parameter order is preserved.
func (q *Queries) Encode() string {
	pairs := q.pairs()
	if len(pairs) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, pair := range pairs {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(pair.key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(pair.value))
	}

	return builder.String()
}

// String implements fmt.Stringer.
func (q *Queries) String() string {
	return q.Encode()
}

func (q *Queries) pairs() []queryPair {
	if q == nil {
		return nil
	}

	var pairs []queryPair

	add := func(key, value string) {
		if value != "" {
			pairs = append(pairs, queryPair{key: key, value: value})
		}
	}

	add(QueryDraftKey, q.DraftKey)

	if q.Limit > 0 {
		add(QueryLimit, strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		add(QueryOffset, strconv.Itoa(q.Offset))
	}

	add(QueryOrders, q.Orders)
	add(QueryQ, q.Q)
	add(QueryFields, strings.Join(q.Fields, ","))
	add(QueryIDs, strings.Join(q.IDs, ","))
	add(QueryFilters, q.Filters)

	if q.Depth > 0 {
		add(QueryDepth, strconv.Itoa(q.Depth))
	}

	add(QueryRichEditorFormat, string(q.RichEditorFormat))

	for _, param := range q.extra {
		pairs = appendEncoded(pairs, param.key, param.value)
	}

	return pairs
}

func appendEncoded(pairs []queryPair, key string, value interface{}) []queryPair {
	if value == nil {
		return pairs
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}

		return appendEncoded(pairs, key, rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(pairs, queryPair{key: key, value: string(rv.Bytes())})
		}

		parts := make([]string, 0, rv.Len())
		for i := range rv.Len() {
			parts = append(parts, formatScalar(rv.Index(i).Interface()))
		}

		return append(pairs, queryPair{key: key, value: strings.Join(parts, ",")})

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return append(pairs, queryPair{key: key, value: formatScalar(value)})
		}

		subKeys := make([]string, 0, rv.Len())
		for _, mapKey := range rv.MapKeys() {
			subKeys = append(subKeys, mapKey.String())
		}

		sort.Strings(subKeys)

		for _, subKey := range subKeys {
			subValue := rv.MapIndex(reflect.ValueOf(subKey).Convert(rv.Type().Key()))
			pairs = appendEncoded(pairs, key+"["+subKey+"]", subValue.Interface())
		}

		return pairs

	default:
		return append(pairs, queryPair{key: key, value: formatScalar(value)})
	}
}

func formatScalar(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(value)
	}
}

// ParseQueries decodes a query string produced by Encode. Documented
// parameters populate their fields; everything else becomes an extra string
// parameter in the order it appears.
func ParseQueries(raw string) (*Queries, error) {
	queries := NewQueries()

	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return queries, nil
	}

	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(part, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decoding query key %q: %w", rawKey, err)
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decoding query value for %q: %w", key, err)
		}

		err = queries.assign(key, value)
		if err != nil {
			return nil, err
		}
	}

	return queries, nil
}

func (q *Queries) assign(key, value string) error {
	var err error

	switch key {
	case QueryDraftKey:
		q.DraftKey = value
	case QueryLimit:
		q.Limit, err = strconv.Atoi(value)
	case QueryOffset:
		q.Offset, err = strconv.Atoi(value)
	case QueryOrders:
		q.Orders = value
	case QueryQ:
		q.Q = value
	case QueryFields:
		q.Fields = splitList(value)
	case QueryIDs:
		q.IDs = splitList(value)
	case QueryFilters:
		q.Filters = value
	case QueryDepth:
		q.Depth, err = strconv.Atoi(value)
	case QueryRichEditorFormat:
		q.RichEditorFormat = RichEditorFormat(value)
	default:
		q.Set(key, value)
	}

	if err != nil {
		return fmt.Errorf("parsing query parameter %q: %w", key, err)
	}

	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	return strings.Split(value, ",")
}

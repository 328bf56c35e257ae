package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeStore is an in-memory DynamoStore for tests. It mirrors the query
// semantics the repositories rely on: hash equality, inclusive sort-key
// ranges, id exclusion, ordering, and limits.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]types.AttributeValue

	putErr    error
	getErr    error
	queryErr  error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string][]map[string]types.AttributeValue)}
}

func (f *fakeStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	if f.putErr != nil {
		return f.putErr
	}

	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[tableName] = append(f.tables[tableName], marshaled)
	return nil
}

func (f *fakeStore) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.tables[tableName] {
		if matchesKey(item, key) {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item in table '%s': %w", tableName, ErrNotFound)
}

func (f *fakeStore) UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.tables[tableName] {
		if !matchesKey(item, key) {
			continue
		}
		// Apply SET placeholder values by attribute name; the fake does not
		// parse the expression text.
		for placeholder, value := range expressionAttributeValues {
			attr := placeholder[1:]
			if named, ok := expressionAttributeNames["#"+attr]; ok {
				attr = named
			}
			item[attr] = value
		}
		return item, nil
	}
	return nil, fmt.Errorf("item in table '%s': %w", tableName, ErrNotFound)
}

func (f *fakeStore) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tables[tableName][:0]
	for _, item := range f.tables[tableName] {
		if !matchesKey(item, key) {
			kept = append(kept, item)
		}
	}
	f.tables[tableName] = kept
	return nil
}

func (f *fakeStore) QueryItems(ctx context.Context, params QueryParams) ([]map[string]types.AttributeValue, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	exclude := make(map[string]struct{}, len(params.ExcludeIDs))
	for _, id := range params.ExcludeIDs {
		exclude[id] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []map[string]types.AttributeValue
	for _, item := range f.tables[params.Table] {
		if stringAttr(item, params.HashKey) != stringValue(params.HashValue) {
			continue
		}
		if params.RangeKey != "" && params.RangeFrom != nil && params.RangeTo != nil {
			value := stringAttr(item, params.RangeKey)
			if value < stringValue(params.RangeFrom) || value > stringValue(params.RangeTo) {
				continue
			}
		}
		if _, excluded := exclude[stringAttr(item, "userId")]; excluded {
			continue
		}
		matched = append(matched, item)
	}

	sortAttr := params.RangeKey
	if sortAttr == "" {
		sortAttr = "sk"
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return stringAttr(matched[i], sortAttr) < stringAttr(matched[j], sortAttr)
	})
	if params.Descending {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	if params.Limit > 0 && len(matched) > int(params.Limit) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func matchesKey(item, key map[string]types.AttributeValue) bool {
	for attr, want := range key {
		if stringAttr(item, attr) != stringValue(want) {
			return false
		}
	}
	return true
}

func stringAttr(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		return stringValue(attr)
	}
	return ""
}

func stringValue(attr types.AttributeValue) string {
	if v, ok := attr.(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QueryParams describes a filtered, ordered, limited query against one table
// or index. Repositories build these instead of raw DynamoDB expressions so
// the store surface stays small enough to fake in tests.
type QueryParams struct {
	Table     string
	Index     string // optional GSI name
	HashKey   string
	HashValue types.AttributeValue

	// Optional inclusive range on the sort key.
	RangeKey  string
	RangeFrom types.AttributeValue
	RangeTo   types.AttributeValue

	// ExcludeIDs is translated to a store-side "not in" filter on userId.
	// Callers must still post-filter; the store bound is theirs to respect.
	ExcludeIDs []string

	Limit      int32
	Descending bool
}

// DynamoStore is the subset of document-store primitives the repositories
// depend on: point lookup, insert, update, delete, and filtered queries.
type DynamoStore interface {
	GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, tableName string, item interface{}) error
	UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error)
	DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	QueryItems(ctx context.Context, params QueryParams) ([]map[string]types.AttributeValue, error)
}

// DynamoService implements DynamoStore against DynamoDB.
type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(region string) *dynamodb.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetItem retrieves a single item. A miss returns ErrNotFound.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}

	if output.Item == nil {
		return nil, fmt.Errorf("item in table '%s': %w", tableName, ErrNotFound)
	}

	return output.Item, nil
}

// PutItem marshals and inserts one item.
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// UpdateItem applies an update expression and returns the new attributes.
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	updateExpression string,
	key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("update failed, key cannot be empty: %w", ErrInvalidInput)
	}
	if updateExpression == "" {
		return nil, fmt.Errorf("update failed, updateExpression cannot be empty: %w", ErrInvalidInput)
	}

	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}

	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// QueryItems runs one bounded query built from QueryParams.
func (ds *DynamoService) QueryItems(ctx context.Context, params QueryParams) ([]map[string]types.AttributeValue, error) {
	keyCondition := "#hk = :hk"
	expressionNames := map[string]string{"#hk": params.HashKey}
	expressionValues := map[string]types.AttributeValue{":hk": params.HashValue}

	if params.RangeKey != "" && params.RangeFrom != nil && params.RangeTo != nil {
		keyCondition += " AND #rk BETWEEN :rkFrom AND :rkTo"
		expressionNames["#rk"] = params.RangeKey
		expressionValues[":rkFrom"] = params.RangeFrom
		expressionValues[":rkTo"] = params.RangeTo
	}

	var filterExpression *string
	if len(params.ExcludeIDs) > 0 {
		placeholders := make([]string, 0, len(params.ExcludeIDs))
		for i, id := range params.ExcludeIDs {
			placeholder := fmt.Sprintf(":ex%d", i)
			placeholders = append(placeholders, placeholder)
			expressionValues[placeholder] = &types.AttributeValueMemberS{Value: id}
		}
		expressionNames["#uid"] = "userId"
		filter := fmt.Sprintf("NOT (#uid IN (%s))", strings.Join(placeholders, ", "))
		filterExpression = &filter
	}

	scanIndexForward := !params.Descending

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(params.Table),
		KeyConditionExpression:    &keyCondition,
		ExpressionAttributeNames:  expressionNames,
		ExpressionAttributeValues: expressionValues,
		FilterExpression:          filterExpression,
		ScanIndexForward:          &scanIndexForward,
	}
	if params.Index != "" {
		input.IndexName = aws.String(params.Index)
	}
	if params.Limit > 0 {
		input.Limit = &params.Limit
	}

	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query table '%s': %w", params.Table, err)
	}

	return output.Items, nil
}

package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/eqsearch/blobstore"
)

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrAlreadyCommitted is returned when publishing an archive name that
// another writer already committed.
var ErrAlreadyCommitted = errors.New("archive already committed")

// CommitStore wraps an S3 Store with DynamoDB commit markers so an
// archive becomes visible only after its upload finished. S3 alone
// cannot distinguish a complete archive from one whose writer died
// mid-upload under the same name; the marker is written after Close
// succeeds, and readers consult markers, not the bucket.
//
// Table schema:
//   - Partition key: base_uri (string), the s3://bucket/prefix of the store
//   - Sort key: name (string), the archive name
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name eqsearch-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=name,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	inner     *Store
	ddb       DDBClient
	tableName string
	baseURI   string
}

var _ blobstore.BlobStore = (*CommitStore)(nil)

// NewCommitStore creates a commit store over an existing S3 store.
// baseURI is the "s3://bucket/prefix" identity used as partition key.
func NewCommitStore(inner *Store, ddb DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		inner:     inner,
		ddb:       ddb,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Open returns ErrNotFound for uncommitted archives even when the
// object already exists in the bucket.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	committed, err := s.isCommitted(ctx, name)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, blobstore.ErrNotFound
	}
	return s.inner.Open(ctx, name)
}

// Create uploads through the inner store and writes the commit marker
// once the upload's Close succeeds.
func (s *CommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &committingBlob{WritableBlob: w, store: s, ctx: ctx, name: name}, nil
}

// Put uploads the archive, then commits it.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.inner.Put(ctx, name, data); err != nil {
		return err
	}
	return s.commit(ctx, name)
}

// Delete retracts the marker first so readers stop seeing the archive
// before the object disappears.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.markerKey(name),
	})
	if err != nil {
		return err
	}
	return s.inner.Delete(ctx, name)
}

// List returns committed archive names only, from the marker table.
func (s *CommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
	}
	if prefix != "" {
		input.KeyConditionExpression = aws.String("base_uri = :uri AND begins_with(#n, :prefix)")
		input.ExpressionAttributeNames = map[string]string{"#n": "name"}
		input.ExpressionAttributeValues[":prefix"] = &types.AttributeValueMemberS{Value: prefix}
	}

	var names []string
	for {
		resp, err := s.ddb.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query commit markers: %w", err)
		}
		for _, item := range resp.Items {
			attr, ok := item["name"].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.New("invalid name attribute in commit marker")
			}
			names = append(names, attr.Value)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
	sort.Strings(names)
	return names, nil
}

func (s *CommitStore) markerKey(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"base_uri": &types.AttributeValueMemberS{Value: s.baseURI},
		"name":     &types.AttributeValueMemberS{Value: name},
	}
}

func (s *CommitStore) isCommitted(ctx context.Context, name string) (bool, error) {
	resp, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.markerKey(name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("get commit marker: %w", err)
	}
	return len(resp.Item) > 0, nil
}

// commit writes the marker. The conditional put rejects a second
// writer publishing under the same name.
func (s *CommitStore) commit(ctx context.Context, name string) error {
	item := s.markerKey(name)
	item["committed_at"] = &types.AttributeValueMemberN{
		Value: fmt.Sprintf("%d", time.Now().UnixNano()),
	}

	_, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrAlreadyCommitted, name)
		}
		return fmt.Errorf("commit marker: %w", err)
	}
	return nil
}

// BaseURI builds the partition-key identity for a bucket and prefix.
func BaseURI(bucket, prefix string) string {
	uri := "s3://" + bucket
	if prefix != "" {
		uri += "/" + strings.Trim(prefix, "/")
	}
	return uri
}

// committingBlob defers the marker write until the upload completed.
type committingBlob struct {
	blobstore.WritableBlob
	store *CommitStore
	ctx   context.Context
	name  string
}

func (b *committingBlob) Close() error {
	if err := b.WritableBlob.Close(); err != nil {
		return err
	}
	return b.store.commit(b.ctx, b.name)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// DynamoStore is the DynamoDB backend for AWS deployments without a
// Postgres instance. Services carry a lowercase slug attribute indexed by
// the SlugIndex GSI for the case-insensitive slug lookup; list reads scan
// and re-sort client-side, which is acceptable at catalog scale.
type DynamoStore struct {
	client        *dynamodb.Client
	categoryTable string
	serviceTable  string
	leadTable     string
}

func NewDynamoStore(client *dynamodb.Client, categoryTable, serviceTable, leadTable string) *DynamoStore {
	return &DynamoStore{
		client:        client,
		categoryTable: categoryTable,
		serviceTable:  serviceTable,
		leadTable:     leadTable,
	}
}

type dynamoCategory struct {
	ID              string `dynamodbav:"id"`
	ExternalID      string `dynamodbav:"external_id"`
	Slug            string `dynamodbav:"slug"`
	Title           string `dynamodbav:"title"`
	Description     string `dynamodbav:"description"`
	IconName        string `dynamodbav:"icon_name"`
	HeroTitle       string `dynamodbav:"hero_title"`
	HeroDescription string `dynamodbav:"hero_description"`
	CategoryType    string `dynamodbav:"category_type"`
	SubServiceIDs   string `dynamodbav:"sub_service_ids"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

type dynamoService struct {
	ID               string `dynamodbav:"id"`
	Slug             string `dynamodbav:"slug"`
	SlugLC           string `dynamodbav:"slug_lc"`
	Title            string `dynamodbav:"title"`
	ShortDescription string `dynamodbav:"short_description"`
	LongDescription  string `dynamodbav:"long_description"`
	IconName         string `dynamodbav:"icon_name"`
	CategoryRef      string `dynamodbav:"category_ref"`
	SubcategoryRef   string `dynamodbav:"subcategory_ref"`
	CategoryName     string `dynamodbav:"category_name"`
	Price            string `dynamodbav:"price"`
	Duration         string `dynamodbav:"duration"`
	Features         string `dynamodbav:"features"`
	Benefits         string `dynamodbav:"benefits"`
	Requirements     string `dynamodbav:"requirements"`
	Status           string `dynamodbav:"status"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

type dynamoLead struct {
	ID            string `dynamodbav:"id"`
	Kind          string `dynamodbav:"kind"`
	Name          string `dynamodbav:"name"`
	Phone         string `dynamodbav:"phone"`
	Email         string `dynamodbav:"email"`
	Subject       string `dynamodbav:"subject"`
	Message       string `dynamodbav:"message"`
	ServiceSlug   string `dynamodbav:"service_slug"`
	PreferredTime string `dynamodbav:"preferred_time"`
	Status        string `dynamodbav:"status"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// ============================================
// Categories
// ============================================

func (s *DynamoStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.categoryTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}

	categories := make([]catalog.Category, 0, len(result.Items))
	for _, item := range result.Items {
		var dc dynamoCategory
		if err := attributevalue.UnmarshalMap(item, &dc); err != nil {
			return nil, fmt.Errorf("unmarshalling category: %w", err)
		}
		categories = append(categories, dc.toCategory())
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].CreatedAt.After(categories[j].CreatedAt)
		}
		return categories[i].Slug < categories[j].Slug
	})
	return categories, nil
}

func (s *DynamoStore) GetCategory(ctx context.Context, internalID string) (*catalog.Category, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.categoryTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: internalID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	var dc dynamoCategory
	if err := attributevalue.UnmarshalMap(result.Item, &dc); err != nil {
		return nil, fmt.Errorf("unmarshalling category: %w", err)
	}
	c := dc.toCategory()
	return &c, nil
}

func (s *DynamoStore) SaveCategory(ctx context.Context, c *catalog.Category) error {
	subIDs, err := json.Marshal(c.SubServiceIDs)
	if err != nil {
		return err
	}
	item := dynamoCategory{
		ID:              c.InternalID,
		ExternalID:      c.ExternalID,
		Slug:            c.Slug,
		Title:           c.Title,
		Description:     c.Description,
		IconName:        c.IconName,
		HeroTitle:       c.HeroTitle,
		HeroDescription: c.HeroDescription,
		CategoryType:    c.Type,
		SubServiceIDs:   string(subIDs),
		CreatedAt:       c.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshalling category: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.categoryTable),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting category %s: %w", c.Slug, err)
	}
	return nil
}

func (s *DynamoStore) DeleteCategory(ctx context.Context, internalID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.categoryTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: internalID},
		},
	})
	return err
}

func (dc dynamoCategory) toCategory() catalog.Category {
	createdAt, _ := time.Parse(time.RFC3339Nano, dc.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, dc.UpdatedAt)
	var subIDs []string
	if dc.SubServiceIDs != "" {
		json.Unmarshal([]byte(dc.SubServiceIDs), &subIDs)
	}
	return catalog.Category{
		InternalID:      dc.ID,
		ExternalID:      dc.ExternalID,
		Slug:            dc.Slug,
		Title:           dc.Title,
		Description:     dc.Description,
		IconName:        dc.IconName,
		HeroTitle:       dc.HeroTitle,
		HeroDescription: dc.HeroDescription,
		Type:            dc.CategoryType,
		SubServiceIDs:   subIDs,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// ============================================
// Services
// ============================================

func (s *DynamoStore) ListServices(ctx context.Context, includeDrafts bool) ([]catalog.Service, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.serviceTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning services: %w", err)
	}

	services := make([]catalog.Service, 0, len(result.Items))
	for _, item := range result.Items {
		var ds dynamoService
		if err := attributevalue.UnmarshalMap(item, &ds); err != nil {
			return nil, fmt.Errorf("unmarshalling service: %w", err)
		}
		svc := ds.toService()
		if includeDrafts || svc.Published() {
			services = append(services, svc)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		if !services[i].CreatedAt.Equal(services[j].CreatedAt) {
			return services[i].CreatedAt.After(services[j].CreatedAt)
		}
		return services[i].Slug < services[j].Slug
	})
	return services, nil
}

func (s *DynamoStore) FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*catalog.Service, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.serviceTable),
		IndexName:              aws.String("SlugIndex"),
		KeyConditionExpression: aws.String("slug_lc = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: strings.ToLower(strings.TrimSpace(slug))},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("querying service by slug: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	var ds dynamoService
	if err := attributevalue.UnmarshalMap(result.Items[0], &ds); err != nil {
		return nil, fmt.Errorf("unmarshalling service: %w", err)
	}
	svc := ds.toService()
	if !includeDrafts && !svc.Published() {
		return nil, nil
	}
	return &svc, nil
}

func (s *DynamoStore) GetService(ctx context.Context, id string) (*catalog.Service, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.serviceTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting service: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	var ds dynamoService
	if err := attributevalue.UnmarshalMap(result.Item, &ds); err != nil {
		return nil, fmt.Errorf("unmarshalling service: %w", err)
	}
	svc := ds.toService()
	return &svc, nil
}

func (s *DynamoStore) SaveService(ctx context.Context, svc *catalog.Service) error {
	price, err := json.Marshal(svc.Price)
	if err != nil {
		return err
	}
	features, _ := json.Marshal(svc.Features)
	benefits, _ := json.Marshal(svc.Benefits)
	requirements, _ := json.Marshal(svc.Requirements)

	item := dynamoService{
		ID:               svc.ID,
		Slug:             svc.Slug,
		SlugLC:           strings.ToLower(svc.Slug),
		Title:            svc.Title,
		ShortDescription: svc.ShortDescription,
		LongDescription:  svc.LongDescription,
		IconName:         svc.IconName,
		CategoryRef:      svc.CategoryRef,
		SubcategoryRef:   svc.SubcategoryRef,
		CategoryName:     svc.CategoryName,
		Price:            string(price),
		Duration:         svc.Duration,
		Features:         string(features),
		Benefits:         string(benefits),
		Requirements:     string(requirements),
		Status:           svc.Status,
		CreatedAt:        svc.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:        svc.UpdatedAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshalling service: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.serviceTable),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting service %s: %w", svc.Slug, err)
	}
	return nil
}

func (s *DynamoStore) DeleteService(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.serviceTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

func (ds dynamoService) toService() catalog.Service {
	createdAt, _ := time.Parse(time.RFC3339Nano, ds.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, ds.UpdatedAt)
	svc := catalog.Service{
		ID:               ds.ID,
		Slug:             ds.Slug,
		Title:            ds.Title,
		ShortDescription: ds.ShortDescription,
		LongDescription:  ds.LongDescription,
		IconName:         ds.IconName,
		CategoryRef:      ds.CategoryRef,
		SubcategoryRef:   ds.SubcategoryRef,
		CategoryName:     ds.CategoryName,
		Duration:         ds.Duration,
		Status:           ds.Status,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if ds.Price != "" {
		json.Unmarshal([]byte(ds.Price), &svc.Price)
	}
	if ds.Features != "" {
		json.Unmarshal([]byte(ds.Features), &svc.Features)
	}
	if ds.Benefits != "" {
		json.Unmarshal([]byte(ds.Benefits), &svc.Benefits)
	}
	if ds.Requirements != "" {
		json.Unmarshal([]byte(ds.Requirements), &svc.Requirements)
	}
	return svc
}

// ============================================
// Leads
// ============================================

func (s *DynamoStore) SaveLead(ctx context.Context, l *lead.Lead) error {
	item := dynamoLead{
		ID:            l.ID,
		Kind:          l.Kind,
		Name:          l.Name,
		Phone:         l.Phone,
		Email:         l.Email,
		Subject:       l.Subject,
		Message:       l.Message,
		ServiceSlug:   l.ServiceSlug,
		PreferredTime: l.PreferredTime,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshalling lead: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.leadTable),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting lead %s: %w", l.ID, err)
	}
	return nil
}

func (s *DynamoStore) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.leadTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	var dl dynamoLead
	if err := attributevalue.UnmarshalMap(result.Item, &dl); err != nil {
		return nil, fmt.Errorf("unmarshalling lead: %w", err)
	}
	l := dl.toLead()
	return &l, nil
}

func (s *DynamoStore) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.leadTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning leads: %w", err)
	}
	leads := make([]lead.Lead, 0, len(result.Items))
	for _, item := range result.Items {
		var dl dynamoLead
		if err := attributevalue.UnmarshalMap(item, &dl); err != nil {
			return nil, fmt.Errorf("unmarshalling lead: %w", err)
		}
		leads = append(leads, dl.toLead())
	}
	sort.Slice(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		}
		return leads[i].ID < leads[j].ID
	})
	return leads, nil
}

func (s *DynamoStore) SetLeadStatus(ctx context.Context, id, status string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.leadTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #status = :status, updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":now":    &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	return err
}

func (dl dynamoLead) toLead() lead.Lead {
	createdAt, _ := time.Parse(time.RFC3339Nano, dl.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, dl.UpdatedAt)
	return lead.Lead{
		ID:            dl.ID,
		Kind:          dl.Kind,
		Name:          dl.Name,
		Phone:         dl.Phone,
		Email:         dl.Email,
		Subject:       dl.Subject,
		Message:       dl.Message,
		ServiceSlug:   dl.ServiceSlug,
		PreferredTime: dl.PreferredTime,
		Status:        dl.Status,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

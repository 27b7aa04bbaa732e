// Package db stores songs in DynamoDB.
package db

import (
	"github.com/jsphweid/notefall/constants"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/store"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// item is a song as laid out in the table. PK is the song ID.
type item struct {
	PK            string  `dynamodbav:"PK"`
	Title         string  `dynamodbav:"Title"`
	Tempo         float64 `dynamodbav:"Tempo"`
	Multiplier    int     `dynamodbav:"Multiplier"`
	Melody        string  `dynamodbav:"Melody"`
	Accompaniment string  `dynamodbav:"Accompaniment"`
}

func toItem(s model.Song) item {
	return item{
		PK:            s.ID,
		Title:         s.Title,
		Tempo:         s.Tempo,
		Multiplier:    s.Multiplier,
		Melody:        s.Melody,
		Accompaniment: s.Accompaniment,
	}
}

func (i item) song() model.Song {
	return model.Song{
		ID:            i.PK,
		Title:         i.Title,
		Tempo:         i.Tempo,
		Multiplier:    i.Multiplier,
		Melody:        i.Melody,
		Accompaniment: i.Accompaniment,
	}
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

var _ store.Store = (*Dynamo)(nil)

// New connects to the table named by DYNAMO_TABLE. When DYNAMO_ENDPOINT is
// set it talks to that endpoint instead of AWS, e.g. a local DynamoDB.
func New() (*Dynamo, error) {
	cfg := &aws.Config{}
	if endpoint := constants.GetDynamoEndpoint(); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.Region = aws.String("localhost")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating DynamoDB session")
	}
	logger.Store.Printf("using DynamoDB table %s", constants.GetDynamoTable())
	return NewWithClient(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

func NewWithClient(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

func (d *Dynamo) Put(song model.Song) (model.Song, error) {
	song = store.AssignID(song)
	av, err := dynamodbattribute.MarshalMap(toItem(song))
	if err != nil {
		return model.Song{}, errors.Wrap(err, "marshalling song")
	}
	_, err = d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	if err != nil {
		return model.Song{}, errors.Wrap(err, "DynamoDB put")
	}
	return song, nil
}

func (d *Dynamo) Get(id string) (model.Song, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       key(id),
	})
	if err != nil {
		return model.Song{}, errors.Wrap(err, "DynamoDB get")
	}
	if len(out.Item) == 0 {
		return model.Song{}, errors.Wrap(store.ErrNotFound, id)
	}
	var i item
	if err := dynamodbattribute.UnmarshalMap(out.Item, &i); err != nil {
		return model.Song{}, errors.Wrap(err, "unmarshalling song")
	}
	return i.song(), nil
}

func (d *Dynamo) List() ([]model.SongOverview, error) {
	res := make([]model.SongOverview, 0)
	var start map[string]*dynamodb.AttributeValue
	for {
		out, err := d.client.Scan(&dynamodb.ScanInput{
			TableName:         aws.String(d.table),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, errors.Wrap(err, "DynamoDB scan")
		}
		var items []item
		if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, errors.Wrap(err, "unmarshalling songs")
		}
		for _, i := range items {
			res = append(res, i.song().Overview())
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	store.SortOverviews(res)
	return res, nil
}

func (d *Dynamo) Delete(id string) error {
	out, err := d.client.DeleteItem(&dynamodb.DeleteItemInput{
		TableName:    aws.String(d.table),
		Key:          key(id),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return errors.Wrap(err, "DynamoDB delete")
	}
	if len(out.Attributes) == 0 {
		return errors.Wrap(store.ErrNotFound, id)
	}
	return nil
}

// Copyright 2025 The csvd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/exporter"
)

func init() {
	exporter.Register(Name, New)
}

const Name = "mongodb"

// Sinker 将记录批量写入 MongoDB Collection
//
// 字段名即文档键 使用 bson.D 保留 header 列序 攒满 Batch 条写一次
type Sinker struct {
	cli  *mongo.Client
	coll *mongo.Collection
	cfg  *exporter.MongoDBConfig

	pending []any
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.MongoDB
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Sinker{
		cli:  cli,
		coll: cli.Database(cfg.Database).Collection(cfg.Collection),
		cfg:  cfg,
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(record *common.Record) error {
	doc := make(bson.D, 0, record.Len()+1)
	doc = append(doc, bson.E{Key: "seq", Value: record.Seq})
	for _, f := range record.Fields() {
		doc = append(doc, bson.E{Key: f.Name, Value: f.Value})
	}

	s.pending = append(s.pending, doc)
	if len(s.pending) < s.cfg.Batch {
		return nil
	}
	return s.flush()
}

func (s *Sinker) Close() error {
	err := s.flush()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if derr := s.cli.Disconnect(ctx); err == nil {
		err = derr
	}
	return err
}

func (s *Sinker) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	_, err := s.coll.InsertMany(ctx, s.pending)
	s.pending = s.pending[:0]
	return err
}

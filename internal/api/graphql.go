package api

import (
	_ "embed"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 8

// NewSchema parses the GraphQL schema and binds it to the root resolver
func NewSchema(resolver *Resolver) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, resolver, graphql.MaxDepth(maxQueryDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return schema, nil
}

// GraphQLHandler serves GraphQL POST requests
func GraphQLHandler(schema *graphql.Schema) gin.HandlerFunc {
	return gin.WrapH(&relay.Handler{Schema: schema})
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/roadwatch/internal/core/domain"
	"github.com/samirrijal/roadwatch/internal/core/ports"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	fieldsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SubmissionFields",
		Fields: graphql.Fields{
			"road_name":         &graphql.Field{Type: graphql.String},
			"district":          &graphql.Field{Type: graphql.String},
			"road_type":         &graphql.Field{Type: graphql.String},
			"city":              &graphql.Field{Type: graphql.String},
			"distress_type":     &graphql.Field{Type: graphql.String},
			"severity":          &graphql.Field{Type: graphql.String},
			"distress_length_m": &graphql.Field{Type: graphql.Float},
			"distress_width_m":  &graphql.Field{Type: graphql.Float},
			"notes":             &graphql.Field{Type: graphql.String},
		},
	})

	submissionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Submission",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"fields":     &graphql.Field{Type: fieldsType},
			"location":   &graphql.Field{Type: coordinateType},
			"image_url":  &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.String},
		},
	})

	severityCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SeverityCount",
		Fields: graphql.Fields{
			"severity": &graphql.Field{Type: graphql.String},
			"count":    &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"submissions": &graphql.Field{
				Type:        graphql.NewList(submissionType),
				Description: "List submissions, newest first",
				Args: graphql.FieldConfigArgument{
					"severity":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"distress_type": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit":         &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					subs, _, err := deps.Submissions.List(p.Context, ports.SubmissionFilter{
						Severity:     p.Args["severity"].(string),
						DistressType: p.Args["distress_type"].(string),
						Limit:        p.Args["limit"].(int),
						Offset:       p.Args["offset"].(int),
					})
					return subs, err
				},
			},
			"submission": &graphql.Field{
				Type:        submissionType,
				Description: "Get a submission by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Submissions.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"submissionsNearby": &graphql.Field{
				Type:        graphql.NewList(submissionType),
				Description: "Find submissions near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Submissions.FindNearby(p.Context,
						p.Args["lat"].(float64),
						p.Args["lon"].(float64),
						p.Args["radius"].(float64),
						p.Args["limit"].(int),
					)
				},
			},
			"severityStats": &graphql.Field{
				Type:        graphql.NewList(severityCountType),
				Description: "Submission counts grouped by severity",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					counts, _, err := deps.Submissions.Stats(p.Context)
					return counts, err
				},
			},
			"formOptions": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "FormOptions",
					Fields: graphql.Fields{
						"road_types":     &graphql.Field{Type: graphql.NewList(graphql.String)},
						"distress_types": &graphql.Field{Type: graphql.NewList(graphql.String)},
						"severities":     &graphql.Field{Type: graphql.NewList(graphql.String)},
					},
				}),
				Description: "Selectable form values",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return map[string]interface{}{
						"road_types":     domain.RoadTypes,
						"distress_types": domain.DistressTypes,
						"severities":     domain.Severities,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

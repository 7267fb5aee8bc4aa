package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/sreedevigattu/recipegenerator/internal/api/middleware"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

const OpenAPIPath = "/apidocs.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/recipes").
			To(handler.GenerateRecipe).
			Doc("Generate a recipe for a main ingredient").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recipes"}).
			Reads(recipe.GenerateRequest{}).
			Writes(recipe.Recipe{}).
			Returns(200, "OK", recipe.Recipe{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Upstream Model Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/recipes").
			To(handler.ListRecipes).
			Doc("List recently generated recipes").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recipes"}).
			Param(ws.QueryParameter("limit", "Maximum number of recipes (default 20, max 100)").DataType("integer").Required(false)).
			Writes(RecipeList{}).
			Returns(200, "OK", RecipeList{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(503, "History Disabled", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document for every web service already registered.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Recipe Generator API",
			Description: "Generates recipes from a main ingredient with a hosted chat model",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "recipes", Description: "Recipe generation and history"}},
	}
}

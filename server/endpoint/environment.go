package endpoint

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/foundation/errors"
	"github.com/kbukum/foundation/spi"
	"github.com/kbukum/foundation/validation"
)

// Environment is the resolved provider view the endpoints report on.
// *foundation.Registry satisfies it.
type Environment interface {
	Property(name, defaultValue string) string
	Network() spi.NetworkProvider
	Server() spi.ServerProvider
	Application() spi.ApplicationProvider
	FellBack() bool
}

// EnvironmentView is the /environment response body.
type EnvironmentView struct {
	AppID       string `json:"app_id"`
	Env         string `json:"env"`
	DataCenter  string `json:"idc"`
	HostAddress string `json:"host_address"`
	HostName    string `json:"host_name"`
	FellBack    bool   `json:"fell_back"`
}

// PropertyView is the /environment/properties/:name response body.
type PropertyView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// EnvironmentReport returns a handler describing the resolved identity. The
// access key secret is never reported.
func EnvironmentReport(env Environment) gin.HandlerFunc {
	return func(c *gin.Context) {
		app, srv, net := env.Application(), env.Server(), env.Network()
		RespondOK(c, EnvironmentView{
			AppID:       app.AppID(),
			Env:         srv.EnvType(),
			DataCenter:  srv.DataCenter(),
			HostAddress: net.HostAddress(),
			HostName:    net.HostName(),
			FellBack:    env.FellBack(),
		})
	}
}

const maxPropertyName = 256

// Property returns a handler looking up one property. The optional "default"
// query parameter is returned when the property is absent.
func Property(env Environment) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		err := validation.New().
			Required("name", name).
			MaxLength("name", name, maxPropertyName).
			Validate()
		if err != nil {
			RespondWithError(c, err)
			return
		}
		if isSecret(name) {
			RespondWithError(c, apperrors.InvalidInput("name", "secret properties are not exposed"))
			return
		}

		// A sentinel default separates "absent" from "empty".
		const absent = "\x00absent"
		value := env.Property(name, absent)
		if value == absent {
			RespondOK(c, PropertyView{Name: name, Value: c.Query("default")})
			return
		}
		RespondOK(c, PropertyView{Name: name, Value: value, Found: true})
	}
}

func isSecret(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), spi.PropertyAccessKeySecret)
}

// Package container wires core mcp-telegram services using go.uber.org/dig.
package container

import (
	"go.uber.org/dig"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/mcp"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
	"github.com/mcp-telegram/mcp-telegram/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	client   *telegram.Client
	registry *tools.Registry
	invoker  *tools.Invoker
	server   *mcp.Server
}

func (c *Container) Client() *telegram.Client  { return c.client }
func (c *Container) Registry() *tools.Registry { return c.registry }
func (c *Container) Invoker() *tools.Invoker   { return c.invoker }
func (c *Container) Server() *mcp.Server       { return c.server }

// versionKey is a named string type so dig can distinguish the release
// version from plain strings.
type versionKey string

// New builds and wires all core services from cfg. The registry is built
// exactly once here; a defective definitions table fails the whole build.
func New(cfg *config.Config, version string) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() versionKey { return versionKey(version) }); err != nil {
		return nil, err
	}
	if err := d.Provide(newClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newInvoker); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		client *telegram.Client,
		registry *tools.Registry,
		invoker *tools.Invoker,
		server *mcp.Server,
	) {
		result = &Container{
			client:   client,
			registry: registry,
			invoker:  invoker,
			server:   server,
		}
	})
	return result, err
}

func newClient(cfg *config.Config) *telegram.Client {
	return telegram.NewClient(cfg)
}

func newRegistry() (*tools.Registry, error) {
	return tools.NewRegistry(tools.Definitions())
}

func newInvoker(registry *tools.Registry, client *telegram.Client) *tools.Invoker {
	return tools.NewInvoker(registry, client)
}

func newServer(registry *tools.Registry, invoker *tools.Invoker, version versionKey) *mcp.Server {
	return mcp.NewServer(registry, invoker, string(version))
}

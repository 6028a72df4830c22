package app

import (
	"io"

	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/modules/assets"
	"github.com/vk/sharegrid/modules/env_vars"
	"github.com/vk/sharegrid/modules/http_client"
	"github.com/vk/sharegrid/modules/http_request"
	"github.com/vk/sharegrid/modules/print"
	"github.com/vk/sharegrid/modules/s3"
	"github.com/vk/sharegrid/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the sharegrid binary. print writes to the app's output.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&env_vars.Module{},
		&http_client.Module{},
		&http_request.Module{},
		&assets.Module{},
		&s3.Module{},
		&socketio.Module{},
		&print.Module{Out: outW},
	}
}

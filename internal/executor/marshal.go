// Copyright 2026 The Authors (see AUTHORS file)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Marshalers holds the three Generated{Yaml,Toml,Json} serializers. Unlike
// Renderer these aren't external collaborators: they're plain structured
// data encoders, so a default set is always available.
type Marshalers struct {
	YAML Marshaler
	TOML Marshaler
	JSON Marshaler
}

func defaultMarshalers() Marshalers {
	return Marshalers{
		YAML: yamlMarshaler{},
		TOML: tomlMarshaler{},
		JSON: jsonMarshaler{},
	}
}

type yamlMarshaler struct{}

func (yamlMarshaler) Marshal(data any) ([]byte, error) { return yaml.Marshal(data) }

type jsonMarshaler struct{}

func (jsonMarshaler) Marshal(data any) ([]byte, error) { return json.MarshalIndent(data, "", "  ") }

// tomlMarshaler wraps BurntSushi/toml, grounded on
// tchow-twistedxcom-agent-deck's use of the same library for its own
// on-disk configuration.
type tomlMarshaler struct{}

func (tomlMarshaler) Marshal(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

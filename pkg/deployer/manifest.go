// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deployer

import (
	"os"
	"strings"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
)

const documentSeparator = "---"

// SplitManifests splits rendered output into manifest documents. Only a line
// consisting of exactly "---" separates documents. Whitespace-only documents
// are dropped and order is preserved.
func SplitManifests(rendered string) []string {
	var (
		docs    []string
		current strings.Builder
	)

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			docs = append(docs, current.String())
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(rendered, "\n") {
		if strings.TrimRight(line, "\r\n") == documentSeparator {
			flush()
			continue
		}
		current.WriteString(line)
	}
	flush()

	return docs
}

// stagingFile is the transient file each manifest is written to before it is
// applied. One file is reused for every document.
type stagingFile struct {
	path string
}

func newStagingFile() (*stagingFile, error) {
	f, err := os.CreateTemp("", defaults.StagingFilePattern)
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &stagingFile{path: path}, nil
}

// write replaces the file content with doc.
func (s *stagingFile) write(doc string) error {
	return os.WriteFile(s.path, []byte(doc), 0o600)
}

func (s *stagingFile) remove() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

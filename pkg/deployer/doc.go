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

/*
Package deployer renders a manifest template into a namespace and scales the
deployments named in a configuration document.

# Configuration

	namespace: bench
	services:
	  frontend:
	    replicas: 3
	  backend:        # replicas defaults to 1

The document is validated when it is loaded: the namespace must be a DNS-1123
label, services must be a mapping (possibly empty) of DNS-1123 names, and
replicas must be a non-negative integer. Services keep document order.

# Templates

Templates use text/template. The namespace is available as {{ namespace }}
and {{ .namespace }}; {{ .services.frontend.replicas }} resolves to the
effective replica count. Undefined keys are errors.

# Pipeline

Run executes, in order:

 1. Load config
 2. Render template
 3. Ensure namespace (probe, create when absent)
 4. Apply each manifest document through one reused staging file
 5. Scale each service
 6. Remove the staging file

Documents are separated by lines consisting of exactly "---". The first
failing step ends the run and earlier cluster changes are left in place.
*/
package deployer

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

// Package labeler applies one label to a set of cluster nodes.
//
// Targets are either an explicit list of node names, used verbatim, or a
// count N that selects the first N nodes in the order the cluster lists
// them. Input errors, including a count larger than the cluster, are
// reported before any node is labeled.
//
// Nodes are labeled one at a time with overwrite semantics. The first
// failed label ends the run and the remaining nodes are not attempted.
package labeler

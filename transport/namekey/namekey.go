// Copyright 2025 AUTHORS
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

// Package namekey converts between the caller's idiomatic key style
// (lowercase-with-hyphens, e.g. "host-config") and Docker's wire JSON key
// style (CamelCase with an initial capital, e.g. "HostConfig"), with a
// small set of exceptions for keys whose own name is user data rather than
// schema: the Labels map (both its keys and values are user-chosen, left
// untouched entirely), the Containers map inside a network inspection
// result (its outer keys are container IDs, but each container's own
// fields are normal Docker schema and still get the transform), and any
// key containing a '.' (domain-qualified labels, whose key stays put but
// whose value is still normalized).
//
// The transform operates on loosely-typed JSON values (map[string]any,
// []any, and scalars) rather than generated struct tags, per the design
// note that the opaque subtrees deliberately escape any static mapping.
package namekey

import "strings"

// opaqueKeys are wire keys whose value subtree — keys and all — must be
// copied through untouched: both the keys and values underneath are
// caller-chosen user data, not part of Docker's schema.
var opaqueKeys = map[string]bool{
	"Labels": true,
}

// idKeyedSubtrees are wire keys whose value is a map keyed by a
// caller-chosen identifier (a container ID) rather than a schema field
// name: the identifier itself is left alone, but each value underneath it
// is a normal Docker schema object and still gets the transform.
var idKeyedSubtrees = map[string]bool{
	"Containers": true,
}

// ToDocker recursively rewrites v's map keys from caller style to Docker's
// wire style. Non-map, non-slice values pass through untouched.
func ToDocker(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			wireKey := toDockerKey(k)
			switch {
			case opaqueKeys[wireKey]:
				out[wireKey] = val // opaque subtree: keys and values are user data
			case idKeyedSubtrees[wireKey]:
				out[wireKey] = mapValues(val, ToDocker) // ID keys stay put, per-ID objects still transform
			default:
				out[wireKey] = ToDocker(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ToDocker(val)
		}
		return out
	default:
		return v
	}
}

// FromDocker recursively rewrites v's map keys from Docker's wire style
// back to caller style, preserving the Labels subtree and any dotted key
// byte-for-byte, and leaving the Containers subtree's own ID keys alone
// while still transforming each container's fields.
func FromDocker(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			switch {
			case opaqueKeys[k]:
				out[k] = val // opaque subtree: keys and values are user data, don't touch them
			case idKeyedSubtrees[k]:
				out[k] = mapValues(val, FromDocker) // ID keys stay put, per-ID objects still transform
			case strings.Contains(k, "."):
				out[k] = FromDocker(val) // domain-qualified key stays put, value still normalized
			default:
				out[fromDockerKey(k)] = FromDocker(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = FromDocker(val)
		}
		return out
	default:
		return v
	}
}

// mapValues applies f to every value of v, leaving v's own keys untouched.
// v is expected to be a map[string]any (an id-keyed subtree); anything else
// passes through unchanged.
func mapValues(v any, f func(any) any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for id, val := range m {
		out[id] = f(val)
	}
	return out
}

// toDockerKey capitalizes the first character, then strips each '-' and
// capitalizes the character that followed it: "host-config" -> "HostConfig".
func toDockerKey(k string) string {
	if k == "" {
		return k
	}
	var b strings.Builder
	b.Grow(len(k))
	capNext := true
	for _, r := range k {
		if r == '-' {
			capNext = true
			continue
		}
		if capNext {
			b.WriteRune(toUpper(r))
			capNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fromDockerKey inserts a hyphen before each run of uppercase letters and
// lowercases the whole key: "HostConfig" -> "host-config",
// "IPv4Address" -> "ipv4-address". In a run of three or more capitals
// followed by a lowercase letter, the last capital starts a new word:
// "IPAddress" -> "ip-address".
func fromDockerKey(k string) string {
	if k == "" {
		return k
	}
	var b strings.Builder
	b.Grow(len(k) + 4)
	runes := []rune(k)
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			prevLower := i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z')
			inUpperRun := i > 1 && (runes[i-1] >= 'A' && runes[i-1] <= 'Z') && (runes[i-2] >= 'A' && runes[i-2] <= 'Z')
			nextLower := i+1 < len(runes) && !(runes[i+1] >= 'A' && runes[i+1] <= 'Z')
			if i > 0 && (prevLower || (inUpperRun && nextLower)) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(toLower(r))
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

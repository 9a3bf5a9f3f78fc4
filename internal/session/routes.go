// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "strings"

// RouteClass is the authentication requirement of a request path.
type RouteClass int

const (
	Protected RouteClass = iota
	Public
)

func (class RouteClass) String() string {
	if class == Public {
		return "public"
	}
	return "protected"
}

// DefaultPublicPaths are the account entry points that never require credentials.
func DefaultPublicPaths() []string {
	return []string{
		"/api/user/login",
		"/api/user/register",
		"/api/user/check",
		"/api/user/refresh",
	}
}

// RouteTable classifies paths by exact match against the public set.
// Everything not listed is protected.
type RouteTable struct {
	public map[string]struct{}
}

// NewRouteTable builds a table from the given public paths. Blank entries are ignored.
func NewRouteTable(publicPaths ...string) *RouteTable {
	table := &RouteTable{public: make(map[string]struct{}, len(publicPaths))}
	for _, path := range publicPaths {
		path = normalizePath(path)
		if path == "" {
			continue
		}
		table.public[path] = struct{}{}
	}
	return table
}

// Classify returns the class of a request path.
func (table *RouteTable) Classify(path string) RouteClass {
	if _, ok := table.public[normalizePath(path)]; ok {
		return Public
	}
	return Protected
}

// normalizePath trims whitespace and a single trailing slash so "/x/" matches "/x".
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	jsonContentType = "application/json"
	yamlContentType = "application/yaml"

	// Versioned objects never change; latest/ is revalidated.
	immutableCache = "public, max-age=31536000, immutable"
	latestCache    = "no-cache"
)

// Publisher writes a document under <prefix>/<version>/ and mirrors it to
// <prefix>/latest/.
type Publisher struct {
	store  Store
	prefix string
}

func NewPublisher(store Store, prefix string) *Publisher {
	return &Publisher{store: store, prefix: strings.Trim(prefix, "/")}
}

// Publish uploads the JSON and YAML renderings of version and returns the
// keys written, versioned keys first.
func (p *Publisher) Publish(ctx context.Context, version string, jsonDoc, yamlDoc []byte) ([]string, error) {
	if err := validVersion(version); err != nil {
		return nil, err
	}
	if len(jsonDoc) == 0 {
		return nil, errors.New("json document is empty")
	}

	type object struct {
		name, contentType string
		data              []byte
	}
	objects := []object{{"openapi.json", jsonContentType, jsonDoc}}
	if len(yamlDoc) > 0 {
		objects = append(objects, object{"openapi.yaml", yamlContentType, yamlDoc})
	}

	var written []string
	for _, dir := range []struct{ name, cache string }{{version, immutableCache}, {"latest", latestCache}} {
		for _, obj := range objects {
			key := p.key(dir.name, obj.name)
			err := p.store.Put(ctx, key, obj.data, PutOptions{ContentType: obj.contentType, CacheControl: dir.cache})
			if err != nil {
				return written, fmt.Errorf("publish %s: %w", key, err)
			}
			written = append(written, key)
		}
	}
	return written, nil
}

// Versions lists the published versions, excluding latest.
func (p *Publisher) Versions(ctx context.Context) ([]string, error) {
	keys, err := p.store.List(ctx, p.key(""))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var versions []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, p.key(""))
		dir, _, ok := strings.Cut(rest, "/")
		if !ok || dir == "latest" || seen[dir] {
			continue
		}
		seen[dir] = true
		versions = append(versions, dir)
	}
	return versions, nil
}

// key joins prefix and parts. An empty last part yields the prefix with a
// trailing slash, for listing.
func (p *Publisher) key(parts ...string) string {
	all := append([]string{p.prefix}, parts...)
	k := path.Join(all...)
	if len(parts) > 0 && parts[len(parts)-1] == "" && k != "" {
		k += "/"
	}
	return strings.TrimPrefix(k, "/")
}

func validVersion(v string) error {
	switch {
	case v == "":
		return errors.New("version is required")
	case v == "latest":
		return errors.New(`version "latest" is reserved`)
	case strings.ContainsAny(v, `/\ `) || strings.Contains(v, ".."):
		return fmt.Errorf("invalid version %q", v)
	}
	return nil
}

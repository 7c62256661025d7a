package api

import (
	"encoding/json"
	"strings"

	"github.com/Jeffail/gabs"
)

// projectFields keeps gid, resource_type and the dotted paths of fields.
// Arrays are projected element by element.
func projectFields(obj resource, fields []string) resource {
	raw, err := json.Marshal(obj)
	if err != nil {
		return obj
	}
	src, err := gabs.ParseJSON(raw)
	if err != nil {
		return obj
	}
	dst := gabs.New()
	keepIdentity(src, dst)
	for _, f := range fields {
		selectPath(src, dst, strings.Split(f, "."))
	}
	out, ok := dst.Data().(map[string]interface{})
	if !ok {
		return obj
	}
	return out
}

// lookup finds a direct child of an object, including children set to null
func lookup(c *gabs.Container, key string) (*gabs.Container, bool) {
	children, err := c.ChildrenMap()
	if err != nil {
		return nil, false
	}
	child, ok := children[key]
	return child, ok
}

func keepIdentity(src, dst *gabs.Container) {
	for _, key := range []string{"gid", "resource_type"} {
		if child, ok := lookup(src, key); ok {
			dst.Set(child.Data(), key)
		}
	}
}

func selectPath(src, dst *gabs.Container, path []string) {
	key := path[0]
	child, ok := lookup(src, key)
	if key == "" || !ok {
		return
	}
	if len(path) == 1 {
		dst.Set(child.Data(), key)
		return
	}

	prev, hasPrev := lookup(dst, key)
	switch v := child.Data().(type) {
	case map[string]interface{}:
		target := map[string]interface{}{}
		if hasPrev {
			if m, ok := prev.Data().(map[string]interface{}); ok {
				target = m
			}
		}
		sub, err := gabs.Consume(target)
		if err != nil {
			return
		}
		keepIdentity(child, sub)
		selectPath(child, sub, path[1:])
		dst.Set(sub.Data(), key)
	case []interface{}:
		out := make([]interface{}, len(v))
		if hasPrev {
			if list, ok := prev.Data().([]interface{}); ok && len(list) == len(v) {
				copy(out, list)
			}
		}
		for i, el := range v {
			if _, ok := el.(map[string]interface{}); !ok {
				out[i] = el
				continue
			}
			target, ok := out[i].(map[string]interface{})
			if !ok {
				target = map[string]interface{}{}
			}
			srcEl, err := gabs.Consume(el)
			if err != nil {
				continue
			}
			dstEl, err := gabs.Consume(target)
			if err != nil {
				continue
			}
			keepIdentity(srcEl, dstEl)
			selectPath(srcEl, dstEl, path[1:])
			out[i] = dstEl.Data()
		}
		dst.Set(out, key)
	default:
		// null or scalar references keep their value
		dst.Set(child.Data(), key)
	}
}

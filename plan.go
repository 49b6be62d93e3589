package veil

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register extracted tags with sentinel
	sentinel.Tag("mask")
	sentinel.Tag("json")
}

// fieldPlan describes one walkable field of a struct type.
type fieldPlan struct {
	name       string     // Go field name, used for sensitivity lookup
	key        string     // output key (json tag name when present)
	index      []int      // reflect.Value.FieldByIndex access path
	ptrIndices []int      // indices where pointer dereference is needed
	directive  *Directive // parsed mask tag, nil when absent
}

// typePlan holds the walkable fields of a struct type in declaration order.
// Plans are built once per type and cached.
type typePlan struct {
	typeName string
	fields   []fieldPlan
	err      error // first invalid mask tag found during the scan
}

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// Register scans T with sentinel and builds its field plan ahead of time,
// surfacing invalid mask tags at startup. Walkers build plans lazily on
// first encounter; Register is the explicit validation hook.
func Register[T any]() error {
	sentinel.Scan[T]()
	return planFor(reflect.TypeFor[T]()).err
}

// ResetPlans clears the type plan cache.
// This is primarily useful for test isolation.
func ResetPlans() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}

// planFor returns the cached plan for rt, building it on first use.
func planFor(rt reflect.Type) *typePlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[rt]; ok {
		return cached
	}

	plan := buildPlan(rt)
	plans[rt] = plan
	return plan
}

// buildPlan scans a struct type into a typePlan. Exported fields appear in
// declaration order; anonymous embedded structs are flattened into the
// parent plan the way promoted fields flatten into the enclosing type.
func buildPlan(rt reflect.Type) *typePlan {
	plan := &typePlan{typeName: typeNameOf(rt)}
	buildPlanFields(plan, rt, metadataFor(rt), nil, nil, map[reflect.Type]bool{rt: true})
	return plan
}

// buildPlanFields appends the walkable fields of one struct level.
// flattening holds the embedded types on the current flattening path; a type
// revisited along that path (self-embedding) is emitted as an ordinary
// struct-valued field instead, leaving cycle handling to the walk.
func buildPlanFields(plan *typePlan, rt reflect.Type, meta sentinel.Metadata, parentIndex, ptrIndices []int, flattening map[reflect.Type]bool) {
	for _, field := range meta.Fields {
		sf := rt.FieldByIndex(field.Index)
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)

		// Flatten embedded structs into the parent object
		if sf.Anonymous {
			embedded := sf.Type
			newPtrIndices := ptrIndices
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
				newPtrIndices = append(append([]int{}, ptrIndices...), len(fullIndex)-1)
			}
			if embedded.Kind() == reflect.Struct && !flattening[embedded] {
				flattening[embedded] = true
				buildPlanFields(plan, embedded, metadataFor(embedded), fullIndex, newPtrIndices, flattening)
				delete(flattening, embedded)
				continue
			}
		}

		key := field.Name
		if jsonTag, ok := field.Tags["json"]; ok {
			jsonName, _, _ := strings.Cut(jsonTag, ",")
			if jsonName == "-" {
				continue
			}
			if jsonName != "" {
				key = jsonName
			}
		}

		fp := fieldPlan{
			name:       field.Name,
			key:        key,
			index:      fullIndex,
			ptrIndices: ptrIndices,
		}

		if tagVal, ok := field.Tags["mask"]; ok {
			d, err := parseDirective(tagVal)
			if err != nil && plan.err == nil {
				plan.err = &DirectiveError{Err: err, Field: field.Name, Tag: tagVal}
			}
			fp.directive = &d
		}

		plan.fields = append(plan.fields, fp)
	}
}

// metadataFor returns sentinel metadata for a struct type, preferring
// registered metadata and falling back to a direct reflection scan.
func metadataFor(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseFieldTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Pointer:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// parseFieldTags extracts the tags the walker cares about.
func parseFieldTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{"mask", "json"} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// fieldByPlan navigates a field path, dereferencing pointers as needed.
// Returns false when a nil pointer interrupts the path.
func fieldByPlan(rv reflect.Value, plan fieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	current := rv
	for i, idx := range plan.index {
		current = current.Field(idx)
		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}

// typeNameOf returns a short marker name for cycle and truncation nodes.
func typeNameOf(rt reflect.Type) string {
	if name := rt.Name(); name != "" {
		return name
	}
	return rt.String()
}

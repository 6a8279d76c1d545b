// Package linker turns the relationships in a scene document into catalog
// rows. Scene indices resolve to row ids through catalog.RowIDForIndex, so
// images and buffers must already be packed in document order.
package linker

import (
	"sort"

	"github.com/materials-commons/assetpack/pkg/catalog"
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/materials-commons/assetpack/pkg/scene"
	"github.com/pkg/errors"
)

var ErrInvalidReference = errors.New("invalid scene reference")

type Linker struct {
	doc      *scene.Document
	inserter stor.MetadataInserter
	logCtx   string
}

func New(doc *scene.Document, inserter stor.MetadataInserter) *Linker {
	return &Linker{doc: doc, inserter: inserter, logCtx: clog.GlobalLoggerCtx}
}

func (l *Linker) WithLogContext(ctx string) *Linker {
	l.logCtx = ctx
	return l
}

// Link inserts materials, buffer views and meshes, in that order.
func (l *Linker) Link() error {
	materials, err := l.LinkMaterials()
	if err != nil {
		return err
	}

	bufferViews, err := l.LinkBufferViews()
	if err != nil {
		return err
	}

	return l.LinkMeshes(materials, bufferViews)
}

// LinkMaterials inserts a Material row for every material with a base color
// texture and returns the row id of each by material index.
func (l *Linker) LinkMaterials() (map[int]int64, error) {
	materials := make(map[int]int64)
	for i, material := range l.doc.Materials {
		textureIndex, ok := material.BaseColorTexture()
		if !ok {
			continue
		}

		imageIndex, ok := l.doc.ImageForTexture(textureIndex)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidReference, "material %d base color texture %d has no image", i, textureIndex)
		}

		id, err := l.inserter.InsertMaterial(catalog.RowIDForIndex(imageIndex))
		if err != nil {
			return nil, errors.Wrapf(err, "inserting material %d", i)
		}

		materials[i] = id
	}

	clog.UsingCtx(l.logCtx).WithField("count", len(materials)).Debug("Linked materials")
	return materials, nil
}

// LinkBufferViews inserts a BufferView row for every buffer view and returns
// their row ids in document order. Each view is tagged with how the first
// primitive that reads it uses it.
func (l *Linker) LinkBufferViews() ([]int64, error) {
	attributes := l.bufferViewAttributes()
	ids := make([]int64, 0, len(l.doc.BufferViews))

	for i, view := range l.doc.BufferViews {
		if view.Buffer < 0 || view.Buffer >= len(l.doc.Buffers) {
			return nil, errors.Wrapf(ErrInvalidReference, "buffer view %d references buffer %d", i, view.Buffer)
		}

		if view.ByteLength <= 0 || view.ByteOffset < 0 {
			return nil, errors.Wrapf(ErrInvalidReference, "buffer view %d has range [%d, +%d)", i, view.ByteOffset, view.ByteLength)
		}

		if bufferLength := l.doc.Buffers[view.Buffer].ByteLength; view.ByteOffset+view.ByteLength > bufferLength {
			return nil, errors.Wrapf(ErrInvalidReference, "buffer view %d overruns buffer %d (%d > %d)",
				i, view.Buffer, view.ByteOffset+view.ByteLength, bufferLength)
		}

		id, err := l.inserter.InsertBufferView(view.ByteLength, view.ByteOffset, attributes[i], catalog.RowIDForIndex(view.Buffer))
		if err != nil {
			return nil, errors.Wrapf(err, "inserting buffer view %d", i)
		}

		ids = append(ids, id)
	}

	clog.UsingCtx(l.logCtx).WithField("count", len(ids)).Debug("Linked buffer views")
	return ids, nil
}

// LinkMeshes inserts every mesh, one submesh per indexed primitive and the
// join rows between them. materials and bufferViews are the results of
// LinkMaterials and LinkBufferViews.
func (l *Linker) LinkMeshes(materials map[int]int64, bufferViews []int64) error {
	for i, mesh := range l.doc.Meshes {
		meshID, err := l.inserter.InsertMesh(mesh.Name)
		if err != nil {
			return errors.Wrapf(err, "inserting mesh %d", i)
		}

		for j, primitive := range mesh.Primitives {
			if primitive.Indices == nil {
				clog.UsingCtx(l.logCtx).
					WithField("mesh", i).
					WithField("primitive", j).
					Warn("Skipping primitive without indices")
				continue
			}

			if l.doc.AccessorWithoutBufferView(*primitive.Indices) {
				clog.UsingCtx(l.logCtx).
					WithField("mesh", i).
					WithField("primitive", j).
					WithField("accessor", *primitive.Indices).
					Warn("Skipping primitive whose indices have no buffer view")
				continue
			}

			if err := l.linkPrimitive(meshID, primitive, materials, bufferViews); err != nil {
				return errors.Wrapf(err, "mesh %d primitive %d", i, j)
			}
		}
	}

	clog.UsingCtx(l.logCtx).WithField("count", len(l.doc.Meshes)).Debug("Linked meshes")
	return nil
}

func (l *Linker) linkPrimitive(meshID int64, primitive scene.Primitive, materials map[int]int64, bufferViews []int64) error {
	indexView, err := l.viewRowID(*primitive.Indices, bufferViews)
	if err != nil {
		return errors.Wrap(err, "indices")
	}

	var materialID *int64
	if primitive.Material != nil {
		m := *primitive.Material
		if m < 0 || m >= len(l.doc.Materials) {
			return errors.Wrapf(ErrInvalidReference, "material %d", m)
		}

		// Materials without a base color texture have no row.
		if id, ok := materials[m]; ok {
			materialID = &id
		}
	}

	subMeshID, err := l.inserter.InsertSubMesh(indexView, materialID)
	if err != nil {
		return errors.Wrap(err, "inserting submesh")
	}

	if err := l.inserter.InsertMeshSubMesh(meshID, subMeshID); err != nil {
		return errors.Wrap(err, "joining submesh to mesh")
	}

	seen := make(map[int64]bool)
	for _, semantic := range sortedSemantics(primitive) {
		accessor := primitive.Attributes[semantic]
		if l.doc.AccessorWithoutBufferView(accessor) {
			clog.UsingCtx(l.logCtx).
				WithField("attribute", semantic).
				WithField("accessor", accessor).
				Warn("Skipping vertex stream without a buffer view")
			continue
		}

		viewID, err := l.viewRowID(accessor, bufferViews)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", semantic)
		}

		if seen[viewID] {
			continue
		}
		seen[viewID] = true

		if err := l.inserter.InsertSubMeshVertexStream(subMeshID, viewID); err != nil {
			return errors.Wrapf(err, "inserting %s vertex stream", semantic)
		}
	}

	return nil
}

func (l *Linker) viewRowID(accessor int, bufferViews []int64) (int64, error) {
	view, ok := l.doc.AccessorBufferView(accessor)
	if !ok || view >= len(bufferViews) {
		return stor.NoID, errors.Wrapf(ErrInvalidReference, "accessor %d has no buffer view", accessor)
	}

	return bufferViews[view], nil
}

func (l *Linker) bufferViewAttributes() map[int]catmodel.VertexAttribute {
	attributes := make(map[int]catmodel.VertexAttribute)
	tag := func(accessor int, attribute catmodel.VertexAttribute) {
		view, ok := l.doc.AccessorBufferView(accessor)
		if !ok {
			return
		}

		if _, tagged := attributes[view]; !tagged {
			attributes[view] = attribute
		}
	}

	for _, mesh := range l.doc.Meshes {
		for _, primitive := range mesh.Primitives {
			if primitive.Indices != nil {
				tag(*primitive.Indices, catmodel.AttributeIndex)
			}

			for _, semantic := range sortedSemantics(primitive) {
				tag(primitive.Attributes[semantic], attributeForSemantic(semantic))
			}
		}
	}

	return attributes
}

func sortedSemantics(primitive scene.Primitive) []string {
	semantics := make([]string, 0, len(primitive.Attributes))
	for semantic := range primitive.Attributes {
		semantics = append(semantics, semantic)
	}
	sort.Strings(semantics)
	return semantics
}

// Package icon defines the folder icon data model shared by the platform
// handle, the resource guard and the IPC boundary.
//
// A [Base] is a transient snapshot of the default folder icon: one raw
// bitmap per size and scale. [Encode] turns a Base into a [SerializableBase],
// the transport-safe payload whose images carry PNG bytes and enough
// metadata (width, height, scale) for a consumer to decode them without
// prior knowledge.
package icon

// Package folders provisions the working folders that shots, assets, and
// tasks keep their media in, and archives them when an entity is deleted.
// Folder calls are best-effort collaborators of the store: their failure
// never invalidates a row mutation.
package folders

// Package registry stores the specs of rendered heavy widgets so the
// central query view can resolve a field identifier back to the widget's
// endpoint, source, and limits.
//
// Every render of a heavy widget (re)registers its spec; entries carry a
// TTL so abandoned forms age out. Once a spec expires, queries for that
// widget answer 404 until the form is rendered again.
//
// Two stores are provided. [Memory] suits a single process:
//
//	reg := registry.New(registry.NewMemory())
//	defer reg.Close()
//
// [Redis] shares registrations across machines, which the original
// deployment model expects for anything beyond one instance:
//
//	client, err := registry.Dial(ctx, os.Getenv("REDIS_URL"))
//	reg := registry.New(registry.NewRedis(client), registry.WithPrefix("myapp"))
//
// Concurrent renders of the same widget are collapsed into a single store
// write via singleflight.
package registry

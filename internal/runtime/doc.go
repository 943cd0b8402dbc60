// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image pulls and
// container creation. Images are pulled for the target platform, unpacked
// into the snapshotter, and used to create containers with overlayfs
// snapshots.
//
// Each [Container] wraps a running containerd task. Commands can be
// executed inside the container, files can be copied in and out as tar
// streams, and additional mounts (e.g. a read-only bind of the host output
// directory for smoke tests) can be applied at creation. When the container
// is no longer needed it should be destroyed to release its snapshot and
// task resources.
//
// Example usage:
//
//	rt, err := runtime.New(runtime.DefaultAddress, runtime.DefaultNamespace)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, runtime.ContainerOptions{
//	    Image:    "docker.io/library/debian:bookworm-slim",
//	    ID:       "smoke-1",
//	    Platform: "linux/amd64",
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "echo hello", nil, "")
//	if err != nil {
//	    return err
//	}
package runtime

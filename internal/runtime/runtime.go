package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing bindle to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Default containerd socket address.
const DefaultAddress = "/run/containerd/containerd.sock"

// Default containerd namespace for images and containers.
const DefaultNamespace = "bindle"

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to a single tenant. The
// runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Describes the container to start.
type ContainerOptions struct {
	Image    string       // Image reference (e.g., "docker.io/library/debian:bookworm-slim").
	ID       string       // Container ID, unique within the namespace.
	Platform string       // OCI platform (e.g., "linux/amd64"). Empty uses the host.
	Mounts   []specs.Mount // Additional mounts applied to the container spec.
}

// Pulls an image and starts a container from it.
//
// The image is pulled for the target platform and its layers are unpacked
// into the snapshotter. A container is created with a fresh snapshot and a
// long-running task (sleep infinity) is started so that subsequent Exec
// calls have a running process to attach to. Any existing container with
// the same ID is removed before the new one is created. Running a platform
// other than the host requires QEMU / binfmt_misc support in the kernel.
func (rt *Runtime) StartContainer(ctx context.Context, opts ContainerOptions) (*Container, error) {
	if opts.Platform == "" {
		opts.Platform = DefaultPlatform()
	}

	image, err := rt.PullImage(ctx, opts.Image, opts.Platform)
	if err != nil {
		return nil, err
	}

	c := &Container{
		client:   rt.client,
		id:       opts.ID,
		platform: opts.Platform,
		mounts:   opts.Mounts,
	}

	// Remove any stale container from a previous run with the same ID.
	c.remove(ctx)

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	slog.Debug("container started", "id", opts.ID, "image", opts.Image, "platform", opts.Platform)

	return c, nil
}

// Pulls an image reference for the target platform and unpacks its layers
// into the snapshotter.
//
// An image already present in the namespace is resolved locally without
// contacting the registry.
func (rt *Runtime) PullImage(ctx context.Context, ref, platform string) (containerd.Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: platform %q: %v", ErrRuntime, platform, err)
	}
	matcher := platforms.Only(p)

	if img, err := rt.client.ImageService().Get(ctx, ref); err == nil {
		image := containerd.NewImageWithPlatform(rt.client, img, matcher)
		if err := rt.ensureUnpacked(ctx, image); err != nil {
			return nil, err
		}
		return image, nil
	} else if !errdefs.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	slog.Info("pulling image", "ref", ref, "platform", platform)

	image, err := rt.client.Pull(ctx, ref,
		containerd.WithPlatformMatcher(matcher),
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(snapshotter),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pull %s: %v", ErrRuntime, ref, err)
	}

	return image, nil
}

// Unpacks the image layers into the snapshotter if they are not already.
func (rt *Runtime) ensureUnpacked(ctx context.Context, image containerd.Image) error {
	unpacked, err := image.IsUnpacked(ctx, snapshotter)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	if unpacked {
		return nil
	}
	if err := image.Unpack(ctx, snapshotter); err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	return nil
}

// Returns the default OCI platform for the host architecture.
func DefaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}

package node

import (
	"Topolab/api"
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"
)

const (
	DefaultImage   = "alpine:3.20"
	ContainerLabel = "topolab.topology"
	namePrefix     = "topolab-"
)

// ContainerManager runs every emulated host as a privileged container with
// docker networking disabled; links are plugged into its namespace afterwards.
type ContainerManager struct {
	dClient client.APIClient
	image   string
	log     *zap.Logger
}

func NewContainerManager(log *zap.Logger, image string) (*ContainerManager, error) {
	dClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("error creating docker client: %w", err)
	}
	return newContainerManager(log, dClient, image), nil
}

func newContainerManager(log *zap.Logger, dClient client.APIClient, image string) *ContainerManager {
	if image == "" {
		image = DefaultImage
	}
	return &ContainerManager{
		dClient: dClient,
		image:   image,
		log:     log.Named("node"),
	}
}

// ContainerName maps a host name to its container name.
func ContainerName(host string) string {
	return namePrefix + host
}

// AddHost creates and starts the container for n and returns the path of its
// network namespace.
func (cm *ContainerManager) AddHost(ctx context.Context, n api.Node, topology string) (string, error) {
	image := n.Image
	if image == "" {
		image = cm.image
	}
	name := ContainerName(n.Name)

	_, err := cm.dClient.ContainerCreate(ctx, &container.Config{
		Image:           image,
		Hostname:        n.Name,
		Cmd:             []string{"sleep", "infinity"},
		NetworkDisabled: true,
		User:            "root",
		Labels:          map[string]string{ContainerLabel: topology},
	}, &container.HostConfig{
		Privileged: true,
		Binds:      n.Binds,
	}, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("error creating container %s: %w", name, err)
	}

	if err = cm.dClient.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		cm.discard(ctx, name)
		return "", fmt.Errorf("error starting container %s: %w", name, err)
	}

	// Get Ns from container
	res, err := cm.dClient.ContainerInspect(ctx, name)
	if err != nil {
		cm.discard(ctx, name)
		return "", fmt.Errorf("error inspecting container %s: %w", name, err)
	}
	netNs := fmt.Sprintf("/proc/%d/ns/net", res.State.Pid)
	cm.log.Debug("host started", zap.String("node", n.Name), zap.String("image", image), zap.String("netns", netNs))
	return netNs, nil
}

// discard removes a container AddHost could not finish, the manager only
// tears down hosts that came up.
func (cm *ContainerManager) discard(ctx context.Context, name string) {
	if err := cm.dClient.ContainerRemove(context.WithoutCancel(ctx), name, container.RemoveOptions{Force: true}); err != nil {
		cm.log.Warn("failed to remove container", zap.String("container", name), zap.Error(err))
	}
}

func (cm *ContainerManager) DeleteHost(ctx context.Context, name string) error {
	return cm.dClient.ContainerRemove(ctx, ContainerName(name), container.RemoveOptions{Force: true})
}

// Exec runs cmd in the host's container, copies its output to out and returns
// the exit code.
func (cm *ContainerManager) Exec(ctx context.Context, name string, cmd []string, out io.Writer) (int, error) {
	exec, err := cm.dClient.ContainerExecCreate(ctx, ContainerName(name), container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return -1, fmt.Errorf("error creating exec on %s: %w", name, err)
	}

	resp, err := cm.dClient.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{})
	if err != nil {
		return -1, fmt.Errorf("error attaching exec on %s: %w", name, err)
	}
	defer resp.Close()

	if _, err = stdcopy.StdCopy(out, out, resp.Reader); err != nil {
		return -1, fmt.Errorf("error reading exec output on %s: %w", name, err)
	}

	inspect, err := cm.dClient.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return -1, fmt.Errorf("error inspecting exec on %s: %w", name, err)
	}
	return inspect.ExitCode, nil
}

// ExecDetached starts cmd in the host's container without waiting for it.
func (cm *ContainerManager) ExecDetached(ctx context.Context, name string, cmd []string) (string, error) {
	exec, err := cm.dClient.ContainerExecCreate(ctx, ContainerName(name), container.ExecOptions{
		Cmd:    cmd,
		Detach: true,
	})
	if err != nil {
		return "", fmt.Errorf("error creating exec on %s: %w", name, err)
	}
	if err = cm.dClient.ContainerExecStart(ctx, exec.ID, container.ExecStartOptions{Detach: true}); err != nil {
		return "", fmt.Errorf("error starting exec on %s: %w", name, err)
	}
	return exec.ID, nil
}

// ExecPid returns the host pid of a detached exec and whether it still runs.
func (cm *ContainerManager) ExecPid(ctx context.Context, execID string) (int, bool, error) {
	inspect, err := cm.dClient.ContainerExecInspect(ctx, execID)
	if err != nil {
		return 0, false, fmt.Errorf("error inspecting exec %s: %w", execID, err)
	}
	return inspect.Pid, inspect.Running, nil
}

// Owned lists the containers started for any topology.
func (cm *ContainerManager) Owned(ctx context.Context) ([]string, error) {
	list, err := cm.dClient.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", ContainerLabel)),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing containers: %w", err)
	}
	var names []string
	for _, c := range list {
		names = append(names, c.ID)
	}
	return names, nil
}

// RemoveContainer removes a container by id or name.
func (cm *ContainerManager) RemoveContainer(ctx context.Context, id string) error {
	return cm.dClient.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
}

func (cm *ContainerManager) Close() error {
	return cm.dClient.Close()
}

package vsphere

import (
	"context"
	"crypto/tls"
	"net/url"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/soap"
)

// Config addresses one vSphere endpoint. Datacenter, Datastore and
// ResourcePool may be empty when the inventory has a single default.
type Config struct {
	Endpoint     string
	Username     string
	Password     string
	Insecure     bool
	Datacenter   string
	Datastore    string
	ResourcePool string
}

// Host implements platform.Platform against a vSphere endpoint.
type Host struct {
	cfg    Config
	client *govmomi.Client
	finder *find.Finder

	datacenter *object.Datacenter
	datastore  *object.Datastore
	pool       *object.ResourcePool
}

func Connect(ctx context.Context, cfg Config) (*Host, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid vSphere endpoint URL")
	}
	u.User = url.UserPassword(cfg.Username, cfg.Password)

	soapClient := soap.NewClient(u, cfg.Insecure)
	if !cfg.Insecure {
		soapClient.DefaultTransport().TLSClientConfig = &tls.Config{
			ServerName: u.Hostname(),
		}
	}

	vimClient, err := vim25.NewClient(ctx, soapClient)
	if err != nil {
		return nil, errors.Wrap(err, "creating VIM client")
	}

	client := &govmomi.Client{
		Client:         vimClient,
		SessionManager: session.NewManager(vimClient),
	}
	if err := client.SessionManager.Login(ctx, u.User); err != nil {
		return nil, errors.Wrap(err, "vSphere login")
	}

	h := &Host{
		cfg:    cfg,
		client: client,
		finder: find.NewFinder(vimClient, true),
	}

	dc, err := h.finder.DatacenterOrDefault(ctx, cfg.Datacenter)
	if err != nil {
		return nil, errors.Wrap(err, "resolving datacenter")
	}
	h.finder.SetDatacenter(dc)
	h.datacenter = dc

	ds, err := h.finder.DatastoreOrDefault(ctx, cfg.Datastore)
	if err != nil {
		return nil, errors.Wrap(err, "resolving datastore")
	}
	h.datastore = ds

	pool, err := h.finder.ResourcePoolOrDefault(ctx, cfg.ResourcePool)
	if err != nil {
		return nil, errors.Wrap(err, "resolving resource pool")
	}
	h.pool = pool

	return h, nil
}

func (h *Host) Close(ctx context.Context) error {
	return h.client.SessionManager.Logout(ctx)
}

func isNotFound(err error) bool {
	var nf *find.NotFoundError
	return errors.As(err, &nf)
}

package sqlinline

const QSelectCustomerByAuthID = `--sql 6d8bd1e2-151e-4ab1-bda0-3dae2081279f
select auth_id, stripe_customer_id, email
from billing_customers
where auth_id = $1::text
limit 1;
`

const QSelectCustomerByStripeID = `--sql 511a43cf-0682-4f81-b992-b5a3de104021
select auth_id, stripe_customer_id, email
from billing_customers
where stripe_customer_id = $1::text
limit 1;
`

const QUpsertCustomer = `--sql 0cac58b8-ecfc-460f-9a06-f03a1802ffc4
insert into billing_customers (auth_id, stripe_customer_id, email, created_at)
values ($1::text, $2::text, $3::text, now())
on conflict (auth_id) do update set
    stripe_customer_id = excluded.stripe_customer_id,
    email = excluded.email;
`

const QSelectEntitlement = `--sql 4e7e6bf0-dfc0-4e9d-ae95-cb841686c428
select auth_id, stripe_customer_id, purchase_id, plan, duration_days, purchased_at, expires_at,
       source_event_id, source_event_created, updated_at
from entitlements
where auth_id = $1::text
limit 1;
`

// QUpsertEntitlementIfNewer only replaces a row written by an older event; a
// zero-row result means the stored state is newer and was kept.
const QUpsertEntitlementIfNewer = `--sql 743dcb77-985f-4247-b17b-87bae13a3dfa
insert into entitlements (
    auth_id, stripe_customer_id, purchase_id, plan, duration_days, purchased_at, expires_at,
    source_event_id, source_event_created, updated_at
) values (
    $1::text, $2::text, $3::text, $4::text, $5::int, $6::timestamptz, $7::timestamptz, $8::text, $9::timestamptz, now()
)
on conflict (auth_id) do update set
    stripe_customer_id = excluded.stripe_customer_id,
    purchase_id = excluded.purchase_id,
    plan = excluded.plan,
    duration_days = excluded.duration_days,
    purchased_at = excluded.purchased_at,
    expires_at = excluded.expires_at,
    source_event_id = excluded.source_event_id,
    source_event_created = excluded.source_event_created,
    updated_at = now()
where entitlements.source_event_created < excluded.source_event_created
   or (entitlements.source_event_created = excluded.source_event_created
       and entitlements.source_event_id <= excluded.source_event_id);
`

package sqlinline

const QInsertCompanion = `--sql d4714f05-a31b-46f5-b329-3bce660128b3
with c as (
    insert into companions (auth_id, slug, name, age, city, city_slug, phone, description, price_per_hour, plan, created_at, updated_at)
    values ($1::text, $2::text, $3::text, $4::int, $5::text, $6::text, $7::text, $8::text, $9::int, 'free', now(), now())
    returning id, created_at, updated_at
),
ch as (
    insert into characteristics (companion_id, height_cm, ethnicity, hair_color, eye_color, body_type)
    select id, $10::int, $11::text, $12::text, $13::text, $14::text from c
)
select id, created_at, updated_at from c;
`

const QUpdateCompanion = `--sql d5435211-1bf9-461a-a289-988a39f983d0
with c as (
    update companions set
        name = $2::text,
        age = $3::int,
        city = $4::text,
        city_slug = $5::text,
        phone = $6::text,
        description = $7::text,
        price_per_hour = $8::int,
        updated_at = now()
    where id = $1::uuid
    returning id, updated_at
),
ch as (
    insert into characteristics (companion_id, height_cm, ethnicity, hair_color, eye_color, body_type)
    select id, $9::int, $10::text, $11::text, $12::text, $13::text from c
    on conflict (companion_id) do update set
        height_cm = excluded.height_cm,
        ethnicity = excluded.ethnicity,
        hair_color = excluded.hair_color,
        eye_color = excluded.eye_color,
        body_type = excluded.body_type
)
select updated_at from c;
`

const QSelectCompanionByAuthID = `--sql bb075e19-23e5-4d1b-b1e9-41659b3b753a
select
    c.id, c.auth_id, c.slug, c.name, c.age, c.city, c.city_slug, c.phone, c.description, c.price_per_hour,
    c.plan, c.plan_expires_at, c.verified, c.verification_date, c.suspended, c.created_at, c.updated_at,
    ch.height_cm, coalesce(ch.ethnicity, ''), coalesce(ch.hair_color, ''), coalesce(ch.eye_color, ''), coalesce(ch.body_type, ''),
    coalesce(r.avg_rating, 0), coalesce(r.review_count, 0)
from companions c
left join characteristics ch on ch.companion_id = c.id
left join lateral (
    select avg(rating)::float8 as avg_rating, count(*)::int as review_count from reviews where companion_id = c.id
) r on true
where c.auth_id = $1::text
limit 1;
`

const QSelectCompanionBySlug = `--sql b9eacede-09d7-4745-a771-d9f8d0200e93
select
    c.id, c.auth_id, c.slug, c.name, c.age, c.city, c.city_slug, c.phone, c.description, c.price_per_hour,
    c.plan, c.plan_expires_at, c.verified, c.verification_date, c.suspended, c.created_at, c.updated_at,
    ch.height_cm, coalesce(ch.ethnicity, ''), coalesce(ch.hair_color, ''), coalesce(ch.eye_color, ''), coalesce(ch.body_type, ''),
    coalesce(r.avg_rating, 0), coalesce(r.review_count, 0)
from companions c
left join characteristics ch on ch.companion_id = c.id
left join lateral (
    select avg(rating)::float8 as avg_rating, count(*)::int as review_count from reviews where companion_id = c.id
) r on true
where c.slug = $1::text
  and not c.suspended
  and not exists (
      select 1 from companion_blocks b where b.companion_id = c.id and b.blocked_auth_id = nullif($2::text, '')
  )
limit 1;
`

const QSelectCompanionByID = `--sql d33e634c-2eb6-4dee-a609-aca6a5d297b2
select
    c.id, c.auth_id, c.slug, c.name, c.age, c.city, c.city_slug, c.phone, c.description, c.price_per_hour,
    c.plan, c.plan_expires_at, c.verified, c.verification_date, c.suspended, c.created_at, c.updated_at,
    ch.height_cm, coalesce(ch.ethnicity, ''), coalesce(ch.hair_color, ''), coalesce(ch.eye_color, ''), coalesce(ch.body_type, ''),
    coalesce(r.avg_rating, 0), coalesce(r.review_count, 0)
from companions c
left join characteristics ch on ch.companion_id = c.id
left join lateral (
    select avg(rating)::float8 as avg_rating, count(*)::int as review_count from reviews where companion_id = c.id
) r on true
where c.id = $1::uuid
limit 1;
`

const QListCompanions = `--sql fa72f831-474a-4773-85b5-b7c4d1d0fc61
select
    c.id, c.auth_id, c.slug, c.name, c.age, c.city, c.city_slug, c.phone, c.description, c.price_per_hour,
    c.plan, c.plan_expires_at, c.verified, c.verification_date, c.suspended, c.created_at, c.updated_at,
    ch.height_cm, coalesce(ch.ethnicity, ''), coalesce(ch.hair_color, ''), coalesce(ch.eye_color, ''), coalesce(ch.body_type, ''),
    coalesce(r.avg_rating, 0), coalesce(r.review_count, 0)
from companions c
left join characteristics ch on ch.companion_id = c.id
left join lateral (
    select avg(rating)::float8 as avg_rating, count(*)::int as review_count from reviews where companion_id = c.id
) r on true
where not c.suspended
  and ($1::text = '' or c.city_slug = $1::text)
  and ($2::int = 0 or c.age >= $2::int)
  and ($3::int = 0 or c.age <= $3::int)
  and ($4::int = 0 or c.price_per_hour >= $4::int)
  and ($5::int = 0 or c.price_per_hour <= $5::int)
  and ($6::text = '' or ch.ethnicity = $6::text)
  and ($7::text = '' or ch.hair_color = $7::text)
  and (not $8::bool or c.verified)
  and not exists (
      select 1 from companion_blocks b where b.companion_id = c.id and b.blocked_auth_id = nullif($9::text, '')
  )
order by
    case when c.plan_expires_at > now() then
        case c.plan when 'vip' then 3 when 'plus' then 2 when 'basico' then 1 else 0 end
    else 0 end desc,
    c.created_at desc
limit $10::int offset $11::int;
`

const QListCities = `--sql 3b1ca0a7-c2cc-4b92-b6e4-5fdc5ddebdf9
select min(city) as city, city_slug, count(*)::int
from companions
where not suspended
group by city_slug
order by count(*) desc, city_slug asc;
`

const QSetCompanionVerified = `--sql 1a8a5a73-ab73-4f35-8cbf-07d5750007e7
with c as (
    update companions set
        verified = $2::bool,
        verification_date = case when $2::bool then $3::timestamptz else null end,
        updated_at = now()
    where id = $1::uuid
    returning id, auth_id
),
d as (
    update documents set
        verified = $2::bool,
        verification_date = $3::timestamptz,
        notes = $4::text,
        updated_at = now()
    where companion_id in (select id from c)
)
select auth_id from c;
`

const QSetCompanionSuspended = `--sql e728b01a-dbd8-4504-bd5b-df50847a53dc
update companions set suspended = $2::bool, updated_at = now()
where id = $1::uuid;
`

const QListPendingVerification = `--sql 38cf8e99-570c-4562-9f2d-65a13db2973e
select
    c.id, c.auth_id, c.slug, c.name, c.age, c.city, c.city_slug, c.phone, c.description, c.price_per_hour,
    c.plan, c.plan_expires_at, c.verified, c.verification_date, c.suspended, c.created_at, c.updated_at,
    ch.height_cm, coalesce(ch.ethnicity, ''), coalesce(ch.hair_color, ''), coalesce(ch.eye_color, ''), coalesce(ch.body_type, ''),
    0::float8, 0::int
from companions c
left join characteristics ch on ch.companion_id = c.id
where not c.verified
  and exists (select 1 from documents d where d.companion_id = c.id and d.document_type = 'verification_video')
  and exists (
      select 1 from documents d
      where d.companion_id = c.id and d.document_type in ('id_card', 'passport', 'drivers_license', 'selfie')
  )
  and exists (select 1 from documents d where d.companion_id = c.id and d.verified is null)
order by c.updated_at asc
limit $1::int;
`

const QApplyCompanionPlan = `--sql 58708ffe-f13b-48a2-a441-870d949ae9d2
update companions set plan = $2::text, plan_expires_at = $3::timestamptz, updated_at = now()
where auth_id = $1::text;
`

const QDowngradeExpiredPlans = `--sql ae148fb1-0317-47ec-9d22-8f22b87d3c83
update companions set plan = 'free', plan_expires_at = null, updated_at = now()
where plan <> 'free'
  and (plan_expires_at is null or plan_expires_at <= $1::timestamptz);
`

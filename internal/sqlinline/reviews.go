package sqlinline

const QInsertReview = `--sql d77027f5-af21-48af-b2c5-3c7224ee136f
insert into reviews (companion_id, reviewer_auth_id, rating, comment, created_at, updated_at)
values ($1::uuid, $2::text, $3::int, $4::text, now(), now())
returning id, created_at;
`

const QListReviews = `--sql 5002c2f7-bb16-4a10-99fa-a5914cbbc7e6
select id, companion_id, reviewer_auth_id, rating, comment, created_at
from reviews
where companion_id = $1::uuid
order by created_at desc
limit $2::int offset $3::int;
`
